package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/aline/internal/core"
)

func TestSelector_ForIntent(t *testing.T) {
	intent := &core.Intent{
		Tag: "pitagoras",
		Responses: map[string]core.ResponseSet{
			"formal":    core.Scalar("a² + b² = c²"),
			"engracada": core.Variants("Triângulo feliz!", "Catetos ao quadrado!", "Hipotenusa na área!"),
			"empatica":  core.Variants(),
		},
	}

	tests := []struct {
		name        string
		personality string
		pick        int
		want        string
	}{
		{name: "scalar returned as is", personality: "formal", want: "a² + b² = c²"},
		{name: "first variant", personality: "engracada", pick: 0, want: "Triângulo feliz!"},
		{name: "last variant", personality: "engracada", pick: 2, want: "Hipotenusa na área!"},
		{name: "missing personality", personality: "desafiadora", want: MissingPersonality},
		{name: "empty variant list", personality: "empatica", want: MissingPersonality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked int
			s := NewSelector(func(n int) int {
				asked = n
				return tt.pick
			})

			assert.Equal(t, tt.want, s.ForIntent(intent, tt.personality))
			if tt.personality == "engracada" {
				assert.Equal(t, 3, asked)
			}
		})
	}
}

func TestSelector_DefaultChooserStaysInRange(t *testing.T) {
	s := NewSelector(nil)
	rs := core.Variants("a", "b", "c")

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		seen[s.Pick(rs)] = true
	}
	assert.Subset(t, []string{"a", "b", "c"}, keys(seen))
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
