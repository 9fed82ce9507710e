package jsonfile

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// taughtRecord also reads the Portuguese keys of older files.
type taughtRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`

	LegacyQuestion string `json:"pergunta,omitempty"`
	LegacyAnswer   string `json:"resposta_ensinada,omitempty"`
}

func (r taughtRecord) entry() core.TaughtEntry {
	e := core.TaughtEntry{Question: r.Question, Answer: r.Answer}
	if e.Question == "" {
		e.Question = r.LegacyQuestion
	}
	if e.Answer == "" {
		e.Answer = r.LegacyAnswer
	}
	return e
}

// TaughtStore keeps taught pairs as a JSON array in insertion order.
type TaughtStore struct {
	path string
	mu   sync.Mutex
}

func NewTaughtStore(path string) *TaughtStore {
	return &TaughtStore{path: path}
}

func (s *TaughtStore) Load(ctx context.Context) ([]core.TaughtEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *TaughtStore) load(ctx context.Context) ([]core.TaughtEntry, error) {
	var records []taughtRecord
	if _, err := readJSON(s.path, &records); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		log.FromCtx(ctx).Error().Err(err).Msg("taught bank unreadable, treating as empty")
		return nil, nil
	}

	entries := make([]core.TaughtEntry, 0, len(records))
	for _, r := range records {
		e := r.entry()
		if e.Question == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *TaughtStore) Append(ctx context.Context, entry core.TaughtEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	records := make([]taughtRecord, len(entries))
	for i, e := range entries {
		records[i] = taughtRecord{Question: e.Question, Answer: e.Answer}
	}
	return WriteJSON(ctx, s.path, records)
}
