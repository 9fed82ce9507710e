package chatbot

import (
	"context"
	"time"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/learning"
	"github.com/sandevgo/aline/internal/service/matcher"
	"github.com/sandevgo/aline/internal/service/responder"
	"github.com/sandevgo/aline/internal/service/stats"
	"github.com/sandevgo/aline/internal/service/validation"
	"github.com/sandevgo/aline/pkg/log"
)

// Reply is the outcome of one processed message.
type Reply struct {
	Answer      string
	Personality string
	// Tag is the matched intent tag, TagFallback on no match and nil for
	// taught answers and rejected input.
	Tag        *string
	IsFallback bool
	Rejected   bool
}

// Text is the answer as shown to the user, with the invitation to teach
// appended on fallback.
func (r Reply) Text() string {
	if r.IsFallback {
		return r.Answer + " " + TeachPrompt
	}
	return r.Answer
}

type Option func(*Chatbot)

// WithChooser makes the choice among response variants deterministic.
func WithChooser(c responder.Chooser) Option {
	return func(b *Chatbot) { b.selector = responder.NewSelector(c) }
}

func WithClock(now func() time.Time) Option {
	return func(b *Chatbot) { b.now = now }
}

// Chatbot ties validation, matching, response selection, teaching, history
// and statistics together.
type Chatbot struct {
	validator *validation.Validator
	matcher   *matcher.Matcher
	selector  *responder.Selector
	learner   *learning.Pipeline
	history   core.HistoryRepository
	stats     *stats.Aggregator
	now       func() time.Time
}

func New(
	m *matcher.Matcher,
	taught core.TaughtRepository,
	history core.HistoryRepository,
	agg *stats.Aggregator,
	opts ...Option,
) *Chatbot {
	v := validation.NewValidator()
	b := &Chatbot{
		validator: v,
		matcher:   m,
		selector:  responder.NewSelector(nil),
		learner:   learning.NewPipeline(v, taught, m),
		history:   history,
		stats:     agg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process answers question in the voice of personality and records the
// interaction. Rejected input is answered politely and not recorded.
func (b *Chatbot) Process(ctx context.Context, question, personality string) Reply {
	logger := log.FromCtx(ctx)
	tin := b.now()

	if !b.validator.Validate(ctx, question) {
		return Reply{
			Answer:      RejectedMessage(personality),
			Personality: personality,
			Rejected:    true,
		}
	}

	reply := Reply{Personality: personality}

	res := b.matcher.Match(ctx, question)
	switch res.Kind {
	case core.MatchIntent:
		tag := res.Intent.Tag
		reply.Tag = &tag
		reply.Answer = b.selector.ForIntent(res.Intent, personality)
	case core.MatchTaught:
		reply.Answer = res.Answer
	default:
		tag := core.TagFallback
		reply.Tag = &tag
		reply.IsFallback = true
		reply.Answer = b.selector.Pick(b.matcher.FallbackResponses(personality))
	}

	tout := b.now()

	entry := core.HistoryEntry{
		TimestampIn:  tin,
		TimestampOut: tout,
		Question:     question,
		Answer:       reply.Answer,
		Personality:  personality,
		Tag:          reply.Tag,
		IsFallback:   reply.IsFallback,
	}
	if err := b.history.Append(ctx, entry); err != nil {
		logger.Error().Err(err).Msg("failed to append history")
	}

	b.stats.Record(ctx, core.Interaction{
		IsFallback:   reply.IsFallback,
		Personality:  personality,
		Tag:          reply.Tag,
		TimestampIn:  tin,
		TimestampOut: tout,
	})

	logger.Debug().
		Str("kind", res.Kind.String()).
		Bool("fallback", reply.IsFallback).
		Str("personality", personality).
		Msg("message processed")

	return reply
}

// Teach stores a question/answer pair and makes it matchable immediately.
func (b *Chatbot) Teach(ctx context.Context, question, answer string) bool {
	return b.learner.Teach(ctx, question, answer)
}

// Stats returns the derived usage metrics.
func (b *Chatbot) Stats(ctx context.Context) core.Stats {
	return b.stats.Stats(ctx)
}

// History returns up to n recent interactions, oldest first.
func (b *Chatbot) History(ctx context.Context, n int) []core.HistoryEntry {
	entries, err := b.history.Last(ctx, n)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load history")
		return nil
	}
	return entries
}

func (b *Chatbot) Matcher() *matcher.Matcher {
	return b.matcher
}
