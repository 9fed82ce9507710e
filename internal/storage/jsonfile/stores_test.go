package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aline/internal/core"
)

func TestTaughtStore(t *testing.T) {
	ctx := context.Background()
	store := NewTaughtStore(filepath.Join(t.TempDir(), "new_data.json"))

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Append(ctx, core.TaughtEntry{Question: "Quanto é 2+2", Answer: "4"}))
	require.NoError(t, store.Append(ctx, core.TaughtEntry{Question: "quanto é 2+2", Answer: "quatro"}))
	require.NoError(t, store.Append(ctx, core.TaughtEntry{Question: "Quanto é 2+2", Answer: "4 de novo"}))

	entries, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.TaughtEntry{
		{Question: "Quanto é 2+2", Answer: "4"},
		{Question: "quanto é 2+2", Answer: "quatro"},
		{Question: "Quanto é 2+2", Answer: "4 de novo"},
	}, entries)
}

func TestTaughtStore_LegacyKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "new_data.json")
	legacy := `[{"pergunta": "o que é um primo", "resposta_ensinada": "divisível só por 1 e por ele mesmo"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store := NewTaughtStore(path)
	require.NoError(t, store.Append(ctx, core.TaughtEntry{Question: "raiz de 9", Answer: "3"}))

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "o que é um primo", entries[0].Question)
	assert.Equal(t, "divisível só por 1 e por ele mesmo", entries[0].Answer)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "resposta_ensinada")
}

func TestTaughtStore_CorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "new_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewTaughtStore(path)
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Append(ctx, core.TaughtEntry{Question: "p", Answer: "r"}))
	entries, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTaughtStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewTaughtStore(filepath.Join(t.TempDir(), "new_data.json"))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, core.TaughtEntry{
				Question: fmt.Sprintf("pergunta %d", i),
				Answer:   "resposta",
			}))
		}(i)
	}
	wg.Wait()

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestHistoryStore_RollingWindow(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(filepath.Join(t.TempDir(), "historico.json"), 5)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tag := "soma"

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Append(ctx, core.HistoryEntry{
			TimestampIn:  base.Add(time.Duration(i) * time.Minute),
			TimestampOut: base.Add(time.Duration(i)*time.Minute + time.Second),
			Question:     fmt.Sprintf("q%d", i),
			Answer:       "a",
			Personality:  "formal",
			Tag:          &tag,
		}))
	}

	all, err := store.Last(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "q2", all[0].Question)
	assert.Equal(t, "q6", all[4].Question)
	require.NotNil(t, all[4].Tag)
	assert.Equal(t, "soma", *all[4].Tag)
	assert.True(t, all[4].TimestampIn.Equal(base.Add(6*time.Minute)))

	last, err := store.Last(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"q5", "q6"}, []string{last[0].Question, last[1].Question})
}

func TestHistoryStore_LegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historico.json")
	legacy := `[{"timestamp": "2025-03-10T09:15:30.123456", "pergunta": "oi", "resposta": "Olá!", "personalidade": "formal"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	entries, err := NewHistoryStore(path, 5).Last(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "oi", entries[0].Question)
	assert.Equal(t, "Olá!", entries[0].Answer)
	assert.Equal(t, "formal", entries[0].Personality)
	assert.Nil(t, entries[0].Tag)
	assert.Equal(t, 15, entries[0].TimestampIn.Minute())
}

func TestStatsStore(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore(filepath.Join(t.TempDir(), "stats.json"))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.TotalInteractions)
	assert.NotNil(t, state.Sessions)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	state.TotalInteractions = 3
	state.FallbackCount = 1
	state.ByPersonality["formal"] = 3
	state.Sessions["1"] = &core.Session{Start: start, End: start.Add(time.Minute), DurationSeconds: 12, InteractionCount: 3}
	state.TotalSessionDurationSeconds = 12
	require.NoError(t, store.Replace(ctx, state))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalInteractions)
	assert.Equal(t, 1, got.FallbackCount)
	require.Contains(t, got.Sessions, "1")
	assert.True(t, got.Sessions["1"].Start.Equal(start))
	assert.InDelta(t, 12.0, got.TotalSessionDurationSeconds, 1e-9)
}

func TestStatsStore_LegacyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	legacyPath := filepath.Join(dir, "legacy.json")
	legacy := `{
		"total_interactions": 2,
		"fallback_count": 1,
		"por_personalidade": {"formal": 2},
		"por_tag": {"math": 1},
		"sessoes": {"1": {"inicio": "2025-03-10T09:00:00", "fim": "2025-03-10T09:05:00", "duracao_seg": 35, "num_interacoes": 2}},
		"total_duracao_sessoes_seg": 35
	}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacy), 0o644))

	state, err := NewStatsStore(legacyPath).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, state.ByPersonality["formal"])
	assert.Equal(t, 1, state.ByTag["math"])
	require.Contains(t, state.Sessions, "1")
	assert.Equal(t, 2, state.Sessions["1"].InteractionCount)
	assert.InDelta(t, 35.0, state.TotalSessionDurationSeconds, 1e-9)

	corruptPath := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corruptPath, []byte("[[["), 0o644))
	state, err = NewStatsStore(corruptPath).Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.TotalInteractions)
}
