package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// Aggregator folds interactions into the persisted statistics. Record calls
// are serialized so concurrent handlers do not lose updates within one
// process. Several processes sharing a store still need an external lock.
type Aggregator struct {
	mu      sync.Mutex
	repo    core.StatsRepository
	timeout time.Duration
}

func NewAggregator(repo core.StatsRepository, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &Aggregator{
		repo:    repo,
		timeout: timeout,
	}
}

// Record adds one interaction and persists the result. It reports whether
// the new state was stored.
func (a *Aggregator) Record(ctx context.Context, in core.Interaction) bool {
	logger := log.FromCtx(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.repo.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load stats")
		return false
	}
	if state == nil {
		state = core.NewStatsState()
	}

	if err := Fold(state, in, a.timeout); err != nil {
		logger.Warn().Err(err).Msg("session update skipped")
	}

	if err := a.repo.Replace(ctx, state); err != nil {
		logger.Error().Err(err).Msg("failed to persist stats")
		return false
	}
	return true
}

// Stats returns the derived metrics of the stored state. A store that cannot
// be read reports zero values.
func (a *Aggregator) Stats(ctx context.Context) core.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.repo.Load(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load stats")
		return Derive(nil)
	}
	return Derive(state)
}
