package responder

import (
	"math/rand/v2"

	"github.com/sandevgo/aline/internal/core"
)

// MissingPersonality is answered when an intent has no responses for the
// requested personality.
const MissingPersonality = "Desculpe, não tenho uma resposta para essa personalidade."

// Chooser returns an index in [0, n).
type Chooser func(n int) int

// Selector turns a response set into one concrete answer.
type Selector struct {
	choose Chooser
}

func NewSelector(choose Chooser) *Selector {
	if choose == nil {
		choose = rand.IntN
	}
	return &Selector{choose: choose}
}

// ForIntent picks the answer of intent for personality.
func (s *Selector) ForIntent(intent *core.Intent, personality string) string {
	if intent == nil {
		return MissingPersonality
	}
	rs, ok := intent.Responses[personality]
	if !ok || rs.IsEmpty() {
		return MissingPersonality
	}
	return s.Pick(rs)
}

// Pick returns a scalar as is and a uniformly chosen element of a list.
func (s *Selector) Pick(rs core.ResponseSet) string {
	if !rs.IsVariants() {
		return rs.Scalar
	}
	if len(rs.Variants) == 0 {
		return MissingPersonality
	}
	return rs.Variants[s.choose(len(rs.Variants))]
}
