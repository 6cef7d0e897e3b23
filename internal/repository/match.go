package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRecord is one archived game result.
type MatchRecord struct {
	ID         string
	Player1    string
	Player2    string
	WinnerID   string
	Method     string
	Turns      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// MatchRepository archives finished matches.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a match repository over the pool.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// EnsureSchema creates the matches table if it does not exist.
func (r *MatchRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS matches (
			id          TEXT PRIMARY KEY,
			player1     TEXT NOT NULL,
			player2     TEXT NOT NULL,
			winner_id   TEXT NOT NULL,
			method      TEXT NOT NULL,
			turns       INT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts one match record.
func (r *MatchRepository) Save(ctx context.Context, rec MatchRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO matches (id, player1, player2, winner_id, method, turns, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Player1, rec.Player2, rec.WinnerID, rec.Method, rec.Turns, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent returns the most recently finished matches, newest first.
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, player1, player2, winner_id, method, turns, started_at, finished_at
		FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.ID, &rec.Player1, &rec.Player2, &rec.WinnerID,
			&rec.Method, &rec.Turns, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
