// Package suggest proposes questions to ask: the ones asked most often
// recently, topped up with random questions from the core bank.
package suggest

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// historyWindow is how many recent interactions are scanned for frequent
// questions.
const historyWindow = 10

// excludedTags are never suggested from the core bank.
var excludedTags = map[string]bool{
	core.TagFallback: true,
	"saudacao":       true,
}

type IntentLister interface {
	Intents() []core.Intent
}

type Suggester struct {
	history core.HistoryRepository
	intents IntentLister
	perm    func(n int) []int
}

func New(history core.HistoryRepository, intents IntentLister) *Suggester {
	return &Suggester{
		history: history,
		intents: intents,
		perm:    rand.Perm,
	}
}

// Combined returns up to total suggestions: at most fromHistory frequent
// recent questions followed by at most fromCore random core questions,
// without duplicates.
func (s *Suggester) Combined(ctx context.Context, total, fromHistory, fromCore int) []string {
	out := make([]string, 0, total)
	seen := make(map[string]bool)

	add := func(list []string) {
		for _, q := range list {
			if len(out) >= total {
				return
			}
			if seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, q)
		}
	}

	add(s.FromHistory(ctx, fromHistory))
	add(s.FromCore(fromCore))
	return out
}

// FromHistory returns the n most frequent recent questions. Ties keep the
// order in which questions were first asked.
func (s *Suggester) FromHistory(ctx context.Context, n int) []string {
	if n <= 0 {
		return nil
	}

	entries, err := s.history.Last(ctx, historyWindow)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load history for suggestions")
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if e.Question == "" {
			continue
		}
		if counts[e.Question] == 0 {
			order = append(order, e.Question)
		}
		counts[e.Question]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// FromCore returns up to n distinct random questions of the core bank.
func (s *Suggester) FromCore(n int) []string {
	if n <= 0 {
		return nil
	}

	var pool []string
	for _, intent := range s.intents.Intents() {
		if excludedTags[intent.Tag] {
			continue
		}
		pool = append(pool, intent.Questions...)
	}

	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range s.perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
