package intentbank

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sandevgo/aline/internal/core"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeBank(t, "core_data.json", `{"intentions": [{"tag": "a", "questions": ["um"]}]}`)

	reloaded := make(chan []core.Intent, 4)
	w := NewWatcher(NewFile(path), func(intents []core.Intent) { reloaded <- intents })
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"intentions": [{"tag": "b", "questions": ["dois"]}]}`), 0o644))

	select {
	case intents := <-reloaded:
		require.Len(t, intents, 1)
		assert.Equal(t, "b", intents[0].Tag)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the bank")
	}

	require.NoError(t, w.Shutdown(ctx))
	require.NoError(t, w.Shutdown(ctx))
}

func TestWatcher_KeepsBankWhenReloadIsEmpty(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeBank(t, "core_data.json", `{"intentions": [{"tag": "a", "questions": ["um"]}]}`)

	called := make(chan struct{}, 1)
	w := NewWatcher(NewFile(path), func([]core.Intent) { called <- struct{}{} })
	w.debounce = 20 * time.Millisecond

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"intentions": [`), 0o644))

	select {
	case <-called:
		t.Fatal("empty bank must not be published")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, w.Shutdown(ctx))
}
