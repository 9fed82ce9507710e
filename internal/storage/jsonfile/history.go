package jsonfile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

const DefaultHistorySize = 5

// historyRecord also reads the single-timestamp Portuguese layout of older
// files.
type historyRecord struct {
	core.HistoryEntry

	LegacyTimestamp   string `json:"timestamp,omitempty"`
	LegacyQuestion    string `json:"pergunta,omitempty"`
	LegacyAnswer      string `json:"resposta,omitempty"`
	LegacyPersonality string `json:"personalidade,omitempty"`
}

func (r historyRecord) entry() core.HistoryEntry {
	e := r.HistoryEntry
	if e.Question == "" {
		e.Question = r.LegacyQuestion
	}
	if e.Answer == "" {
		e.Answer = r.LegacyAnswer
	}
	if e.Personality == "" {
		e.Personality = r.LegacyPersonality
	}
	if e.TimestampIn.IsZero() && r.LegacyTimestamp != "" {
		if ts, ok := parseLegacyTime(r.LegacyTimestamp); ok {
			e.TimestampIn, e.TimestampOut = ts, ts
		}
	}
	return e
}

// HistoryStore keeps the most recent interactions, oldest first.
type HistoryStore struct {
	path string
	size int
	mu   sync.Mutex
}

func NewHistoryStore(path string, size int) *HistoryStore {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &HistoryStore{path: path, size: size}
}

func (s *HistoryStore) load(ctx context.Context) ([]core.HistoryEntry, error) {
	var records []historyRecord
	if _, err := readJSON(s.path, &records); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		log.FromCtx(ctx).Error().Err(err).Msg("history unreadable, treating as empty")
		return nil, nil
	}

	entries := make([]core.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = r.entry()
	}
	return entries, nil
}

// Append adds entry and drops everything but the newest entries.
func (s *HistoryStore) Append(ctx context.Context, entry core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if len(entries) > s.size {
		entries = entries[len(entries)-s.size:]
	}
	return WriteJSON(ctx, s.path, entries)
}

// Last returns up to n of the newest entries, oldest first.
func (s *HistoryStore) Last(ctx context.Context, n int) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseLegacyTime(s string) (time.Time, bool) {
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
