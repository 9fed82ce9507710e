package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/personality"
)

const topTags = 5

type StatsSource interface {
	Stats(ctx context.Context) core.Stats
}

type StatsCommand struct {
	source    StatsSource
	formatter *ResponseFormatter
}

func NewStatsCommand(source StatsSource) *StatsCommand {
	return &StatsCommand{
		source:    source,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string { return "estatisticas" }

func (c *StatsCommand) Description() string { return "Mostra as estatísticas de uso" }

func (c *StatsCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	return FormatStats(c.formatter, c.source.Stats(ctx)), nil
}

// FormatStats renders the derived metrics as Markdown.
func FormatStats(f *ResponseFormatter, st core.Stats) string {
	sections := []string{
		f.Info("Estatísticas"),
		f.Label("Interações", fmt.Sprint(st.TotalInteractions)) +
			f.Label("Sem resposta", fmt.Sprintf("%d (%s%%)", st.FallbackCount, Decimal(st.FallbackRate*100))) +
			f.Label("Sessões", fmt.Sprint(st.SessionCount)) +
			f.Label("Duração média", Decimal(st.MeanSessionDurationMinutes)+" min"),
	}

	if len(st.ByPersonality) > 0 {
		var items []string
		for _, k := range sortedByCount(st.ByPersonality) {
			items = append(items, f.Share(personality.DisplayName(k), st.ByPersonality[k], st.ByPersonalityPct[k]))
		}
		sections = append(sections, f.Section("🎭", "Por personalidade", f.List(items)))
	}

	if len(st.ByTag) > 0 {
		keys := sortedByCount(st.ByTag)
		if len(keys) > topTags {
			keys = keys[:topTags]
		}
		var items []string
		for _, k := range keys {
			items = append(items, f.Share(k, st.ByTag[k], st.ByTagPct[k]))
		}
		sections = append(sections, f.Section("🏷️", "Assuntos mais frequentes", f.List(items)))
	}

	return f.Combine(sections...)
}

func sortedByCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
