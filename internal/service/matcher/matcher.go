package matcher

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
	"github.com/sandevgo/aline/pkg/similarity"
)

// Tier is the two-band confidence scheme applied to one bank's fuzzy lookup.
// Candidates below Gate are never considered. A candidate at or above Accept
// matches outright; between Gate and Accept it also needs token Jaccard of at
// least Jaccard.
type Tier struct {
	Gate    float64
	Accept  float64
	Jaccard float64
}

var (
	CoreTier   = Tier{Gate: 0.8, Accept: 0.92, Jaccard: 0.9}
	TaughtTier = Tier{Gate: 0.9, Accept: 0.92, Jaccard: 0.95}
)

var defaultFallback = core.Variants(
	"Eu não sei a resposta para essa pergunta.",
	"Desculpe, não consegui processar isso.",
)

const missingPersonalityFallback = "Desculpe, não entendi."

type coreIndex struct {
	intents  []core.Intent
	byPhrase map[string]*core.Intent
	phrases  []string
	fallback *core.Intent
}

type taughtIndex struct {
	entries []core.TaughtEntry
	exact   map[string]string
	folded  map[string]string
	phrases []string
}

// Matcher resolves a question against the core intent bank and the taught
// bank. Both indexes are rebuilt off to the side and published with an atomic
// swap, so Match never sees a partially built index.
type Matcher struct {
	core   atomic.Pointer[coreIndex]
	taught atomic.Pointer[taughtIndex]

	coreTier   Tier
	taughtTier Tier
}

func New(intents []core.Intent, taught []core.TaughtEntry) *Matcher {
	m := &Matcher{
		coreTier:   CoreTier,
		taughtTier: TaughtTier,
	}
	m.core.Store(buildCoreIndex(intents))
	m.taught.Store(buildTaughtIndex(taught))
	return m
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func buildCoreIndex(intents []core.Intent) *coreIndex {
	idx := &coreIndex{
		intents:  append([]core.Intent(nil), intents...),
		byPhrase: make(map[string]*core.Intent),
	}

	for i := range idx.intents {
		intent := &idx.intents[i]
		if intent.IsFallback() && idx.fallback == nil {
			idx.fallback = intent
		}
		for _, q := range intent.Questions {
			key := normalize(q)
			if _, seen := idx.byPhrase[key]; seen {
				continue
			}
			idx.byPhrase[key] = intent
			idx.phrases = append(idx.phrases, key)
		}
	}
	return idx
}

func buildTaughtIndex(entries []core.TaughtEntry) *taughtIndex {
	idx := &taughtIndex{
		entries: append([]core.TaughtEntry(nil), entries...),
		exact:   make(map[string]string, len(entries)),
		folded:  make(map[string]string, len(entries)),
	}

	for _, e := range idx.entries {
		if _, seen := idx.exact[e.Question]; !seen {
			idx.exact[e.Question] = e.Answer
		}
		key := normalize(e.Question)
		if _, seen := idx.folded[key]; !seen {
			idx.folded[key] = e.Answer
			idx.phrases = append(idx.phrases, key)
		}
	}
	return idx
}

// RefreshIntents replaces the core bank and its index.
func (m *Matcher) RefreshIntents(intents []core.Intent) {
	m.core.Store(buildCoreIndex(intents))
}

// RefreshTaught replaces the taught bank and its index.
func (m *Matcher) RefreshTaught(entries []core.TaughtEntry) {
	m.taught.Store(buildTaughtIndex(entries))
}

// Intents returns the current core bank. Callers must not modify it.
func (m *Matcher) Intents() []core.Intent {
	return m.core.Load().intents
}

// TaughtCount returns the number of taught entries, duplicates included.
func (m *Matcher) TaughtCount() int {
	return len(m.taught.Load().entries)
}

// Match runs the lookup stages in order and returns the first hit:
// exact core, fuzzy core, exact taught, fuzzy taught.
func (m *Matcher) Match(ctx context.Context, question string) core.MatchResult {
	logger := log.FromCtx(ctx)
	norm := normalize(question)

	ci := m.core.Load()
	if intent, ok := ci.byPhrase[norm]; ok {
		logger.Debug().Str("tag", intent.Tag).Msg("exact core match")
		return core.IntentMatch(intent)
	}

	if cand, ok := m.fuzzy(ctx, norm, ci.phrases, m.coreTier, "core"); ok {
		return core.IntentMatch(ci.byPhrase[cand])
	}

	ti := m.taught.Load()
	if answer, ok := ti.exact[question]; ok {
		logger.Debug().Msg("exact taught match (case-sensitive)")
		return core.TaughtMatch(answer)
	}
	if answer, ok := ti.folded[norm]; ok {
		logger.Debug().Msg("exact taught match (case-insensitive)")
		return core.TaughtMatch(answer)
	}

	if cand, ok := m.fuzzy(ctx, norm, ti.phrases, m.taughtTier, "taught"); ok {
		return core.TaughtMatch(ti.folded[cand])
	}

	logger.Debug().Str("question", question).Msg("no match")
	return core.NoMatch()
}

func (m *Matcher) fuzzy(ctx context.Context, norm string, phrases []string, tier Tier, bank string) (string, bool) {
	cand, _, ok := similarity.BestMatch(norm, phrases, tier.Gate)
	if !ok {
		return "", false
	}

	logger := log.FromCtx(ctx)
	sim := similarity.Ratio(norm, cand)
	logger.Debug().
		Str("bank", bank).
		Str("candidate", cand).
		Float64("sim", sim).
		Msg("fuzzy candidate")

	if sim >= tier.Accept {
		return cand, true
	}
	if sim < tier.Gate {
		return "", false
	}

	jac := similarity.Jaccard(norm, cand)
	logger.Debug().
		Str("bank", bank).
		Float64("jaccard", jac).
		Msg("fuzzy second opinion")

	return cand, jac >= tier.Jaccard
}

// FallbackResponses returns what to answer when nothing matched. Without a
// fallback intent a fixed pair of apologies is used.
func (m *Matcher) FallbackResponses(personality string) core.ResponseSet {
	fb := m.core.Load().fallback
	if fb == nil {
		return defaultFallback
	}
	if rs, ok := fb.Responses[personality]; ok && !rs.IsEmpty() {
		return rs
	}
	return core.Variants(missingPersonalityFallback)
}

// FallbackIntent returns the catch-all intent of the core bank, if any.
func (m *Matcher) FallbackIntent() (*core.Intent, bool) {
	fb := m.core.Load().fallback
	return fb, fb != nil
}
