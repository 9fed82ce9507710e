package learning

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/matcher"
	"github.com/sandevgo/aline/internal/service/validation"
)

type memoryRepo struct {
	entries   []core.TaughtEntry
	appendErr error
}

func (r *memoryRepo) Load(context.Context) ([]core.TaughtEntry, error) {
	return append([]core.TaughtEntry(nil), r.entries...), nil
}

func (r *memoryRepo) Append(_ context.Context, e core.TaughtEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestPipeline_TeachThenMatch(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	m := matcher.New(nil, nil)
	p := NewPipeline(validation.NewValidator(), repo, m)

	require.Equal(t, core.MatchNone, m.Match(ctx, "P").Kind)
	require.True(t, p.Teach(ctx, "P", "A"))

	assert.Equal(t, core.TaughtMatch("A"), m.Match(ctx, "P"))
	assert.Len(t, repo.entries, 1)
}

func TestPipeline_RejectsInvalidField(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		answer    string
		wantField string
	}{
		{name: "empty question", question: "  ", answer: "ok", wantField: `"field":"question"`},
		{name: "answer with control char", question: "quanto é 2+2", answer: "4\x00", wantField: `"field":"answer"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := zerolog.New(&buf).WithContext(context.Background())
			repo := &memoryRepo{}
			m := matcher.New(nil, nil)

			ok := NewPipeline(validation.NewValidator(), repo, m).Teach(ctx, tt.question, tt.answer)

			assert.False(t, ok)
			assert.Empty(t, repo.entries)
			assert.Contains(t, buf.String(), tt.wantField)
		})
	}
}

func TestPipeline_PersistenceFailureLeavesIndex(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{entries: []core.TaughtEntry{{Question: "velha", Answer: "antiga"}}}
	m := matcher.New(nil, repo.entries)
	p := NewPipeline(validation.NewValidator(), repo, m)

	repo.appendErr = errors.New("disk full")

	assert.False(t, p.Teach(ctx, "nova", "resposta"))
	assert.Equal(t, core.MatchNone, m.Match(ctx, "nova").Kind)
	assert.Equal(t, core.TaughtMatch("antiga"), m.Match(ctx, "velha"))
	assert.Equal(t, 1, m.TaughtCount())
}

// gatedRepo blocks the first Load until release is closed.
type gatedRepo struct {
	mu      sync.Mutex
	entries []core.TaughtEntry
	loads   int
	entered chan struct{}
	release chan struct{}
}

func (r *gatedRepo) Load(context.Context) ([]core.TaughtEntry, error) {
	r.mu.Lock()
	snapshot := append([]core.TaughtEntry(nil), r.entries...)
	r.loads++
	first := r.loads == 1
	r.mu.Unlock()

	if first {
		close(r.entered)
		<-r.release
	}
	return snapshot, nil
}

func (r *gatedRepo) Append(_ context.Context, e core.TaughtEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func TestPipeline_ConcurrentTeachKeepsNewestSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &gatedRepo{entered: make(chan struct{}), release: make(chan struct{})}
	m := matcher.New(nil, nil)
	p := NewPipeline(validation.NewValidator(), repo, m)

	firstDone := make(chan bool, 1)
	go func() { firstDone <- p.Teach(ctx, "quanto é dois mais dois", "quatro") }()
	<-repo.entered

	secondDone := make(chan bool, 1)
	go func() { secondDone <- p.Teach(ctx, "raiz quadrada de nove", "três") }()

	select {
	case <-secondDone:
		t.Fatal("second teach finished while the first one was still reloading")
	case <-time.After(50 * time.Millisecond):
	}

	close(repo.release)
	require.True(t, <-firstDone)
	require.True(t, <-secondDone)

	assert.Equal(t, core.TaughtMatch("quatro"), m.Match(ctx, "quanto é dois mais dois"))
	assert.Equal(t, core.TaughtMatch("três"), m.Match(ctx, "raiz quadrada de nove"))
	assert.Equal(t, 2, m.TaughtCount())
}
