package stats

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sandevgo/aline/internal/core"
)

// DefaultSessionTimeout is the idle gap that starts a new session.
const DefaultSessionTimeout = 30 * time.Minute

// Fold adds one interaction to state. Counters are always updated. Session
// bookkeeping is skipped when the timestamps are malformed, in which case the
// returned error wraps core.ErrMalformedTimestamps.
func Fold(state *core.StatsState, in core.Interaction, timeout time.Duration) error {
	state.EnsureMaps()

	state.TotalInteractions++
	if in.IsFallback {
		state.FallbackCount++
	}
	state.ByPersonality[in.Personality]++
	if in.Tag != nil {
		state.ByTag[*in.Tag]++
	}

	if err := foldSession(state, in, timeout); err != nil {
		return err
	}

	state.TotalSessionDurationSeconds = 0
	for _, s := range state.Sessions {
		state.TotalSessionDurationSeconds += s.DurationSeconds
	}
	return nil
}

func foldSession(state *core.StatsState, in core.Interaction, timeout time.Duration) error {
	if in.TimestampIn.IsZero() || in.TimestampOut.IsZero() {
		return fmt.Errorf("%w: missing timestamp", core.ErrMalformedTimestamps)
	}
	if in.TimestampOut.Before(in.TimestampIn) {
		return fmt.Errorf("%w: out %s before in %s",
			core.ErrMalformedTimestamps, in.TimestampOut.Format(time.RFC3339), in.TimestampIn.Format(time.RFC3339))
	}

	duration := in.TimestampOut.Sub(in.TimestampIn).Seconds()

	lastID, last := lastSession(state.Sessions)
	if last == nil {
		state.Sessions["1"] = newSession(in, duration)
		return nil
	}

	if in.TimestampIn.Before(last.Start) {
		return fmt.Errorf("%w: in %s before start of session %d",
			core.ErrMalformedTimestamps, in.TimestampIn.Format(time.RFC3339), lastID)
	}

	// Interactions from concurrent chats may overlap the last session.
	if in.TimestampIn.Sub(last.End) < timeout {
		if in.TimestampOut.After(last.End) {
			last.End = in.TimestampOut
		}
		last.DurationSeconds += duration
		last.InteractionCount++
		return nil
	}

	state.Sessions[strconv.Itoa(lastID+1)] = newSession(in, duration)
	return nil
}

func newSession(in core.Interaction, duration float64) *core.Session {
	return &core.Session{
		Start:            in.TimestampIn,
		End:              in.TimestampOut,
		DurationSeconds:  duration,
		InteractionCount: 1,
	}
}

// lastSession returns the session with the highest numeric id. Keys that are
// not integers are ignored.
func lastSession(sessions map[string]*core.Session) (int, *core.Session) {
	var (
		maxID int
		last  *core.Session
	)
	for key, s := range sessions {
		id, err := strconv.Atoi(key)
		if err != nil || s == nil {
			continue
		}
		if last == nil || id > maxID {
			maxID, last = id, s
		}
	}
	return maxID, last
}

// Derive computes the reported metrics from state without modifying it.
func Derive(state *core.StatsState) core.Stats {
	out := core.Stats{
		ByPersonality:    map[string]int{},
		ByTag:            map[string]int{},
		ByPersonalityPct: map[string]float64{},
		ByTagPct:         map[string]float64{},
	}
	if state == nil {
		return out
	}

	out.TotalInteractions = state.TotalInteractions
	out.FallbackCount = state.FallbackCount
	for k, v := range state.ByPersonality {
		out.ByPersonality[k] = v
	}
	for k, v := range state.ByTag {
		out.ByTag[k] = v
	}

	if total := state.TotalInteractions; total > 0 {
		out.FallbackRate = float64(state.FallbackCount) / float64(total)
		for k, v := range state.ByPersonality {
			out.ByPersonalityPct[k] = float64(v) / float64(total) * 100
		}
		for k, v := range state.ByTag {
			out.ByTagPct[k] = float64(v) / float64(total) * 100
		}
	}

	out.SessionCount = len(state.Sessions)
	if out.SessionCount > 0 {
		out.MeanSessionDurationMinutes = state.TotalSessionDurationSeconds / float64(out.SessionCount) / 60
	}
	return out
}
