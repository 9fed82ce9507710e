package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/sandevgo/aline/internal/core"
)

const (
	counterPersonality = "personality"
	counterTag         = "tag"
)

type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) Load(ctx context.Context) (*core.StatsState, error) {
	state := core.NewStatsState()

	err := r.db.QueryRowContext(ctx,
		`SELECT total_interactions, fallback_count, total_session_duration_seconds FROM stats_totals WHERE id = 1`,
	).Scan(&state.TotalInteractions, &state.FallbackCount, &state.TotalSessionDurationSeconds)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load stats totals: %w", err)
	}

	if err := r.loadCounters(ctx, state); err != nil {
		return nil, err
	}
	if err := r.loadSessions(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *StatsRepo) loadCounters(ctx context.Context, state *core.StatsState) error {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, name, count FROM stats_counters`)
	if err != nil {
		return fmt.Errorf("failed to query counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind, name string
			count      int
		)
		if err := rows.Scan(&kind, &name, &count); err != nil {
			return fmt.Errorf("failed to scan counter: %w", err)
		}
		switch kind {
		case counterPersonality:
			state.ByPersonality[name] = count
		case counterTag:
			state.ByTag[name] = count
		}
	}
	return rows.Err()
}

func (r *StatsRepo) loadSessions(ctx context.Context, state *core.StatsState) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, duration_seconds, interaction_count FROM sessions`)
	if err != nil {
		return fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int
			start, end string
			s          core.Session
		)
		if err := rows.Scan(&id, &start, &end, &s.DurationSeconds, &s.InteractionCount); err != nil {
			return fmt.Errorf("failed to scan session: %w", err)
		}
		if s.Start, err = parseTime(start); err != nil {
			return err
		}
		if s.End, err = parseTime(end); err != nil {
			return err
		}
		state.Sessions[strconv.Itoa(id)] = &s
	}
	return rows.Err()
}

// Replace overwrites the stored statistics in one transaction.
func (r *StatsRepo) Replace(ctx context.Context, state *core.StatsState) error {
	if state == nil {
		state = core.NewStatsState()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stats_totals (id, total_interactions, fallback_count, total_session_duration_seconds)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_interactions = excluded.total_interactions,
			fallback_count = excluded.fallback_count,
			total_session_duration_seconds = excluded.total_session_duration_seconds`,
		state.TotalInteractions, state.FallbackCount, state.TotalSessionDurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to save stats totals: %w", err)
	}

	for _, table := range []string{"stats_counters", "sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	counters := []struct {
		kind   string
		values map[string]int
	}{
		{counterPersonality, state.ByPersonality},
		{counterTag, state.ByTag},
	}
	for _, c := range counters {
		for name, count := range c.values {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO stats_counters (kind, name, count) VALUES (?, ?, ?)`,
				c.kind, name, count)
			if err != nil {
				return fmt.Errorf("failed to save counter %s/%s: %w", c.kind, name, err)
			}
		}
	}

	ids := make([]string, 0, len(state.Sessions))
	for id := range state.Sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, key := range ids {
		s := state.Sessions[key]
		id, err := strconv.Atoi(key)
		if err != nil || s == nil {
			return fmt.Errorf("invalid session id %q", key)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (id, started_at, ended_at, duration_seconds, interaction_count) VALUES (?, ?, ?, ?, ?)`,
			id, formatTime(s.Start), formatTime(s.End), s.DurationSeconds, s.InteractionCount)
		if err != nil {
			return fmt.Errorf("failed to save session %d: %w", id, err)
		}
	}

	return tx.Commit()
}
