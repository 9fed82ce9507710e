package matcher

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aline/internal/core"
)

const circleQuestion = "como calcular a area do circulo"

func testBank() []core.Intent {
	return []core.Intent{
		{
			Tag:       "saudacao",
			Questions: []string{"oi", "olá"},
			Responses: map[string]core.ResponseSet{
				"formal": core.Scalar("Olá! Como posso ajudar?"),
			},
		},
		{
			Tag:       "area_circulo",
			Questions: []string{"Como calcular a área do círculo", circleQuestion},
			Responses: map[string]core.ResponseSet{
				"formal": core.Scalar("A área do círculo é pi vezes o raio ao quadrado."),
			},
		},
		{
			Tag:       core.TagFallback,
			Questions: []string{},
			Responses: map[string]core.ResponseSet{
				"formal":    core.Variants("Não sei responder isso.", "Ainda não aprendi isso."),
				"engracada": core.Scalar("Essa me pegou!"),
			},
		},
	}
}

func TestMatcher_Match(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		taught   []core.TaughtEntry
		question string
		wantKind core.MatchKind
		wantTag  string
		wantAns  string
	}{
		{name: "exact core, different case", question: "Oi", wantKind: core.MatchIntent, wantTag: "saudacao"},
		{name: "exact core, surrounding spaces", question: "  OLÁ  ", wantKind: core.MatchIntent, wantTag: "saudacao"},
		{
			name:     "exact core wins over identical taught entry",
			taught:   []core.TaughtEntry{{Question: "oi", Answer: "resposta ensinada"}},
			question: "oi",
			wantKind: core.MatchIntent,
			wantTag:  "saudacao",
		},
		{name: "fuzzy core, high band", question: "como calcular a area do circulo?", wantKind: core.MatchIntent, wantTag: "area_circulo"},
		{
			name:     "fuzzy core, medium band confirmed by jaccard",
			question: "como   calcular   a  area  do  circulo",
			wantKind: core.MatchIntent,
			wantTag:  "area_circulo",
		},
		{name: "fuzzy core, medium band rejected by jaccard", question: "como calcular a area do triangulo", wantKind: core.MatchNone},
		{name: "below the gate", question: "qual é a capital da frança", wantKind: core.MatchNone},
		{
			name:     "exact taught, case-sensitive first",
			taught:   []core.TaughtEntry{{Question: "Quanto é Pi", Answer: "3,14"}, {Question: "quanto é pi", Answer: "outra"}},
			question: "quanto é pi",
			wantKind: core.MatchTaught,
			wantAns:  "outra",
		},
		{
			name:     "exact taught, case-insensitive keeps first occurrence",
			taught:   []core.TaughtEntry{{Question: "Quanto é Pi", Answer: "3,14"}, {Question: "quanto é pi", Answer: "outra"}},
			question: "QUANTO É PI",
			wantKind: core.MatchTaught,
			wantAns:  "3,14",
		},
		{
			name:     "fuzzy taught, high band",
			taught:   []core.TaughtEntry{{Question: "qual a formula de bhaskara", Answer: "x = (-b ± √Δ) / 2a"}},
			question: "qual a formula de baskara",
			wantKind: core.MatchTaught,
			wantAns:  "x = (-b ± √Δ) / 2a",
		},
		{name: "nothing", question: "pergunta nunca vista", wantKind: core.MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(testBank(), tt.taught)

			got := m.Match(ctx, tt.question)
			require.Equal(t, tt.wantKind, got.Kind)

			switch tt.wantKind {
			case core.MatchIntent:
				require.NotNil(t, got.Intent)
				assert.Equal(t, tt.wantTag, got.Intent.Tag)
			case core.MatchTaught:
				assert.Equal(t, tt.wantAns, got.Answer)
				assert.Nil(t, got.Intent)
			default:
				assert.Nil(t, got.Intent)
				assert.Empty(t, got.Answer)
			}
		})
	}
}

func TestMatcher_TaughtStricterThanCore(t *testing.T) {
	ctx := context.Background()
	q := "como   calcular   a  area  do  circulo"

	asCore := New([]core.Intent{{Tag: "area", Questions: []string{circleQuestion}}}, nil)
	assert.Equal(t, core.MatchIntent, asCore.Match(ctx, q).Kind)

	asTaught := New(nil, []core.TaughtEntry{{Question: circleQuestion, Answer: "pi r²"}})
	assert.Equal(t, core.MatchNone, asTaught.Match(ctx, q).Kind)
}

func TestMatcher_RefreshTaught(t *testing.T) {
	ctx := context.Background()
	m := New(testBank(), nil)

	require.Equal(t, core.MatchNone, m.Match(ctx, "pergunta nunca vista").Kind)

	m.RefreshTaught([]core.TaughtEntry{{Question: "pergunta nunca vista", Answer: "resposta nova"}})

	got := m.Match(ctx, "pergunta nunca vista")
	assert.Equal(t, core.TaughtMatch("resposta nova"), got)
	assert.Equal(t, 1, m.TaughtCount())
}

func TestMatcher_RefreshIntents(t *testing.T) {
	ctx := context.Background()
	m := New(testBank(), nil)

	m.RefreshIntents([]core.Intent{{Tag: "despedida", Questions: []string{"tchau"}}})

	assert.Equal(t, core.MatchNone, m.Match(ctx, "oi").Kind)
	got := m.Match(ctx, "Tchau")
	require.Equal(t, core.MatchIntent, got.Kind)
	assert.Equal(t, "despedida", got.Intent.Tag)

	_, ok := m.FallbackIntent()
	assert.False(t, ok)
}

func TestMatcher_FallbackResponses(t *testing.T) {
	m := New(testBank(), nil)

	assert.Equal(t,
		[]string{"Não sei responder isso.", "Ainda não aprendi isso."},
		m.FallbackResponses("formal").All())
	assert.Equal(t, "Essa me pegou!", m.FallbackResponses("engracada").Scalar)
	assert.Equal(t, []string{"Desculpe, não entendi."}, m.FallbackResponses("desconhecida").All())

	empty := New(nil, nil)
	assert.Equal(t,
		[]string{"Eu não sei a resposta para essa pergunta.", "Desculpe, não consegui processar isso."},
		empty.FallbackResponses("formal").All())
}

func TestMatcher_ConcurrentRefresh(t *testing.T) {
	ctx := context.Background()
	m := New(testBank(), nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.RefreshIntents(testBank())
			m.RefreshTaught([]core.TaughtEntry{{Question: "x", Answer: "y"}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			got := m.Match(ctx, "oi")
			assert.Equal(t, core.MatchIntent, got.Kind)
		}
	}()
	wg.Wait()
}
