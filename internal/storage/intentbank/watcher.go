package intentbank

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher reloads the bank file whenever it changes on disk and hands the
// new intents to onReload. The parent directory is watched so that editors
// which replace the file by rename are noticed too.
type Watcher struct {
	file     *File
	onReload func([]core.Intent)
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWatcher(file *File, onReload func([]core.Intent)) *Watcher {
	return &Watcher{
		file:     file,
		onReload: onReload,
		debounce: defaultDebounce,
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.file.Path())
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.watcher = fw
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(runCtx, fw, w.done)

	log.FromCtx(ctx).Info().Str("path", w.file.Path()).Msg("watching intent bank")
	return nil
}

func (w *Watcher) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	fw, cancel, done := w.watcher, w.cancel, w.done
	w.watcher, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}

	cancel()
	<-done
	return fw.Close()
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	logger := log.FromCtx(ctx)
	target := filepath.Clean(w.file.Path())

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("op", event.Op.String()).Msg("intent bank changed")
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("intent bank watcher error")

		case <-timer.C:
			intents := w.file.Load(ctx)
			if len(intents) == 0 {
				logger.Warn().Msg("reloaded intent bank is empty, keeping current one")
				continue
			}
			w.onReload(intents)
			logger.Info().Int("intents", len(intents)).Msg("intent bank reloaded")
		}
	}
}
