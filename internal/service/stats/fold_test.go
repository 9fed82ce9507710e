package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aline/internal/core"
)

var t0 = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func tag(s string) *string { return &s }

func interaction(in time.Time, d time.Duration) core.Interaction {
	return core.Interaction{
		Personality:  "formal",
		Tag:          tag("saudacao"),
		TimestampIn:  in,
		TimestampOut: in.Add(d),
	}
}

func TestFold_SessionSplitting(t *testing.T) {
	state := core.NewStatsState()

	require.NoError(t, Fold(state, interaction(t0, 2*time.Second), DefaultSessionTimeout))
	require.NoError(t, Fold(state, interaction(t0.Add(10*time.Second), 3*time.Second), DefaultSessionTimeout))
	require.NoError(t, Fold(state, interaction(t0.Add(40*time.Minute), time.Second), DefaultSessionTimeout))

	require.Len(t, state.Sessions, 2)

	first := state.Sessions["1"]
	assert.Equal(t, t0, first.Start)
	assert.Equal(t, t0.Add(13*time.Second), first.End)
	assert.Equal(t, 2, first.InteractionCount)
	assert.InDelta(t, 5.0, first.DurationSeconds, 1e-9)

	second := state.Sessions["2"]
	assert.Equal(t, 1, second.InteractionCount)
	assert.Equal(t, t0.Add(40*time.Minute), second.Start)

	assert.InDelta(t, 6.0, state.TotalSessionDurationSeconds, 1e-9)
	assert.Equal(t, 2, Derive(state).SessionCount)
}

func TestFold_GapMeasuredFromSessionEnd(t *testing.T) {
	state := core.NewStatsState()

	require.NoError(t, Fold(state, interaction(t0, 10*time.Minute), DefaultSessionTimeout))
	// 35 minutes after the start but 25 after the end of the first interaction.
	require.NoError(t, Fold(state, interaction(t0.Add(35*time.Minute), time.Second), DefaultSessionTimeout))
	// Exactly one timeout after the previous end opens a new session.
	require.NoError(t, Fold(state, interaction(t0.Add(35*time.Minute+time.Second+DefaultSessionTimeout), time.Second), DefaultSessionTimeout))

	assert.Len(t, state.Sessions, 2)
	assert.Equal(t, 2, state.Sessions["1"].InteractionCount)
}

func TestFold_MalformedTimestampsStillCount(t *testing.T) {
	tests := []struct {
		name  string
		prior []core.Interaction
		in    core.Interaction
	}{
		{name: "out before in", in: interaction(t0, -time.Second)},
		{name: "zero timestamps", in: core.Interaction{Personality: "formal"}},
		{
			name:  "in before start of last session",
			prior: []core.Interaction{interaction(t0, time.Minute)},
			in:    interaction(t0.Add(-30*time.Second), time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := core.NewStatsState()
			for _, p := range tt.prior {
				require.NoError(t, Fold(state, p, DefaultSessionTimeout))
			}
			before := len(state.Sessions)

			err := Fold(state, tt.in, DefaultSessionTimeout)

			assert.ErrorIs(t, err, core.ErrMalformedTimestamps)
			assert.Equal(t, len(tt.prior)+1, state.TotalInteractions)
			assert.Equal(t, len(tt.prior)+1, state.ByPersonality["formal"])
			assert.Len(t, state.Sessions, before)
		})
	}
}

func TestFold_OverlappingInteractionJoinsLastSession(t *testing.T) {
	state := core.NewStatsState()

	require.NoError(t, Fold(state, interaction(t0, time.Minute), DefaultSessionTimeout))
	// Starts inside the first interaction and ends before it.
	require.NoError(t, Fold(state, interaction(t0.Add(10*time.Second), 5*time.Second), DefaultSessionTimeout))
	// Starts inside the session and extends it.
	require.NoError(t, Fold(state, interaction(t0.Add(50*time.Second), 20*time.Second), DefaultSessionTimeout))

	require.Len(t, state.Sessions, 1)
	s := state.Sessions["1"]
	assert.Equal(t, 3, s.InteractionCount)
	assert.Equal(t, state.TotalInteractions, s.InteractionCount)
	assert.Equal(t, t0, s.Start)
	assert.Equal(t, t0.Add(70*time.Second), s.End)
	assert.InDelta(t, 85.0, s.DurationSeconds, 1e-9)
}

func TestFold_NextIDFollowsHighestNumericKey(t *testing.T) {
	state := core.NewStatsState()
	state.Sessions["2"] = &core.Session{Start: t0, End: t0, DurationSeconds: 4}
	state.Sessions["10"] = &core.Session{Start: t0, End: t0, DurationSeconds: 6}
	state.Sessions["legado"] = &core.Session{Start: t0, End: t0.Add(48 * time.Hour)}

	require.NoError(t, Fold(state, interaction(t0.Add(time.Hour), 2*time.Second), DefaultSessionTimeout))

	require.Contains(t, state.Sessions, "11")
	assert.InDelta(t, 12.0, state.TotalSessionDurationSeconds, 1e-9)
}

func TestDerive(t *testing.T) {
	empty := Derive(core.NewStatsState())
	assert.Zero(t, empty.FallbackRate)
	assert.Zero(t, empty.MeanSessionDurationMinutes)
	assert.Empty(t, empty.ByPersonalityPct)
	assert.Empty(t, empty.ByTagPct)

	state := core.NewStatsState()
	ins := []core.Interaction{
		{IsFallback: true, Personality: "formal", Tag: tag(core.TagFallback)},
		{Personality: "formal", Tag: tag("pitagoras")},
		{Personality: "engracada"},
		{Personality: "engracada", Tag: tag("pitagoras")},
	}
	for i, in := range ins {
		in.TimestampIn = t0.Add(time.Duration(i) * time.Hour)
		in.TimestampOut = in.TimestampIn.Add(time.Minute)
		require.NoError(t, Fold(state, in, DefaultSessionTimeout))
	}

	got := Derive(state)
	assert.Equal(t, 4, got.TotalInteractions)
	assert.InDelta(t, 0.25, got.FallbackRate, 1e-9)
	assert.InDelta(t, 50.0, got.ByPersonalityPct["engracada"], 1e-9)
	assert.InDelta(t, 50.0, got.ByTagPct["pitagoras"], 1e-9)
	assert.Equal(t, 4, got.SessionCount)
	assert.InDelta(t, 1.0, got.MeanSessionDurationMinutes, 1e-9)

	tagged := 0
	for _, v := range got.ByTag {
		tagged += v
	}
	assert.LessOrEqual(t, tagged, got.TotalInteractions)
	assert.Equal(t, 3, tagged)
}
