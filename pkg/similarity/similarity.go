// Package similarity implements the lexical scores used by the intent matcher:
// the difflib sequence ratio, the close-match gate built on it, and token
// Jaccard overlap.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// runes splits s into one element per code point so that difflib compares
// characters instead of lines.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Ratio returns the difflib similarity of a and b in [0, 1].
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// BestMatch returns the candidate most similar to word among those whose
// ratio is at least cutoff. Candidates are scored with the cheap upper bounds
// first and the full ratio last. Equal scores prefer the lexically greater
// candidate.
func BestMatch(word string, candidates []string, cutoff float64) (string, float64, bool) {
	var (
		best      string
		bestScore float64
		found     bool
	)

	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(runes(word))

	for _, c := range candidates {
		m.SetSeq1(runes(c))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && c > best) {
			best, bestScore, found = c, score, true
		}
	}

	return best, bestScore, found
}

// Jaccard returns the ratio of shared whitespace-delimited tokens to all
// distinct tokens of a and b.
func Jaccard(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)

	union := len(sa)
	shared := 0
	for t := range sb {
		if _, ok := sa[t]; ok {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
