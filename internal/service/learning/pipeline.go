package learning

import (
	"context"
	"sync"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// InputValidator is satisfied by validation.Validator.
type InputValidator interface {
	Validate(ctx context.Context, text string) bool
}

// TaughtIndex receives the taught bank after every successful append.
type TaughtIndex interface {
	RefreshTaught(entries []core.TaughtEntry)
}

type Pipeline struct {
	// mu serializes append, reload and refresh so an older snapshot never
	// replaces a newer one in the index.
	mu        sync.Mutex
	validator InputValidator
	repo      core.TaughtRepository
	index     TaughtIndex
}

func NewPipeline(v InputValidator, repo core.TaughtRepository, index TaughtIndex) *Pipeline {
	return &Pipeline{
		validator: v,
		repo:      repo,
		index:     index,
	}
}

// Teach stores a new question/answer pair and makes it matchable right away.
// It reports whether the pair was persisted. When persistence fails the index
// is left as it was.
func (p *Pipeline) Teach(ctx context.Context, question, answer string) bool {
	logger := log.FromCtx(ctx)

	if !p.validator.Validate(ctx, question) {
		logger.Warn().Str("field", "question").Msg("teach rejected")
		return false
	}
	if !p.validator.Validate(ctx, answer) {
		logger.Warn().Str("field", "answer").Msg("teach rejected")
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entry := core.TaughtEntry{Question: question, Answer: answer}
	if err := p.repo.Append(ctx, entry); err != nil {
		logger.Error().Err(err).Msg("failed to persist taught entry")
		return false
	}

	entries, err := p.repo.Load(ctx)
	if err != nil {
		// The pair is stored; it becomes matchable on the next reload.
		logger.Error().Err(err).Msg("failed to reload taught bank")
		return true
	}

	p.index.RefreshTaught(entries)
	logger.Info().Int("taught", len(entries)).Msg("new answer learned")
	return true
}
