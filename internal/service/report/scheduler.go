package report

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

type StatsSource interface {
	Stats(ctx context.Context) core.Stats
}

// Scheduler logs a usage summary on a cron schedule.
type Scheduler struct {
	spec   string
	source StatsSource

	mu   sync.Mutex
	cron *cron.Cron
}

func NewScheduler(spec string, source StatsSource) *Scheduler {
	return &Scheduler{
		spec:   spec,
		source: source,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.Run(ctx) }); err != nil {
		return fmt.Errorf("invalid stats report schedule %q: %w", s.spec, err)
	}
	c.Start()
	s.cron = c

	logger.Info().Str("schedule", s.spec).Msg("stats report scheduled")
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	return nil
}

// Run logs one summary immediately.
func (s *Scheduler) Run(ctx context.Context) {
	st := s.source.Stats(ctx)

	evt := log.FromCtx(ctx).Info().
		Int("interactions", st.TotalInteractions).
		Int("fallbacks", st.FallbackCount).
		Float64("fallback_rate", st.FallbackRate).
		Int("sessions", st.SessionCount).
		Float64("mean_session_minutes", st.MeanSessionDurationMinutes)

	if top := TopKeys(st.ByTag, 3); len(top) > 0 {
		evt = evt.Strs("top_tags", top)
	}
	evt.Msg("stats report")
}

// TopKeys returns the n keys with the highest counts, ties broken by name.
func TopKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
