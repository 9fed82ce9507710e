package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/aline/internal/core"
)

type TaughtRepo struct {
	db *sql.DB
}

func NewTaughtRepo(db *sql.DB) *TaughtRepo {
	return &TaughtRepo{db: db}
}

func (r *TaughtRepo) Load(ctx context.Context) ([]core.TaughtEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT question, answer FROM taught ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query taught entries: %w", err)
	}
	defer rows.Close()

	var entries []core.TaughtEntry
	for rows.Next() {
		var e core.TaughtEntry
		if err := rows.Scan(&e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan taught entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TaughtRepo) Append(ctx context.Context, entry core.TaughtEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO taught (question, answer) VALUES (?, ?)`,
		entry.Question, entry.Answer)
	if err != nil {
		return fmt.Errorf("failed to insert taught entry: %w", err)
	}
	return nil
}
