package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

type HistoryRepo struct {
	db   *sql.DB
	size int
}

func NewHistoryRepo(db *sql.DB, size int) *HistoryRepo {
	if size <= 0 {
		size = 5
	}
	return &HistoryRepo{db: db, size: size}
}

// Append stores entry and trims the table to the newest rows.
func (h *HistoryRepo) Append(ctx context.Context, e core.HistoryEntry) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var tag sql.NullString
	if e.Tag != nil {
		tag = sql.NullString{String: *e.Tag, Valid: true}
	}

	query := `INSERT INTO history (timestamp_in, timestamp_out, question, answer, personality, tag, is_fallback)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		formatTime(e.TimestampIn), formatTime(e.TimestampOut),
		e.Question, e.Answer, e.Personality, tag, e.IsFallback)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
		h.size)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	return tx.Commit()
}

func (h *HistoryRepo) Last(ctx context.Context, n int) ([]core.HistoryEntry, error) {
	// Fetch the newest rows first, then restore chronological order.
	query := `SELECT timestamp_in, timestamp_out, question, answer, personality, tag, is_fallback
		FROM history ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var (
			e       core.HistoryEntry
			in, out string
			tag     sql.NullString
		)
		if err := rows.Scan(&in, &out, &e.Question, &e.Answer, &e.Personality, &tag, &e.IsFallback); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if e.TimestampIn, err = parseTime(in); err != nil {
			return nil, err
		}
		if e.TimestampOut, err = parseTime(out); err != nil {
			return nil, err
		}
		if tag.Valid {
			e.Tag = &tag.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(entries)).Msg("loaded history")
	return entries, nil
}
