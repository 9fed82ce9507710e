package core

import (
	"context"
)

// TaughtRepository persists user-taught question/answer pairs.
// Load returns entries in insertion order; a missing or corrupt store is empty.
type TaughtRepository interface {
	Load(ctx context.Context) ([]TaughtEntry, error)
	Append(ctx context.Context, entry TaughtEntry) error
}

// HistoryRepository keeps the most recent interactions.
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	Last(ctx context.Context, n int) ([]HistoryEntry, error)
}

// StatsRepository holds the aggregated statistics document.
type StatsRepository interface {
	Load(ctx context.Context) (*StatsState, error)
	Replace(ctx context.Context, state *StatsState) error
}
