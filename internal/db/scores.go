package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type ScoreRecord struct {
	Username  string
	DeviceID  string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertBestScore creates the row for username or raises its score to score
// if higher, returning the stored best.
func (d *DB) UpsertBestScore(ctx context.Context, username, deviceID string, score int) (int, error) {
	var best int
	err := d.conn.QueryRowContext(ctx, `
		INSERT INTO leaderboard (username, device_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET
			device_id = EXCLUDED.device_id,
			score = GREATEST(leaderboard.score, EXCLUDED.score),
			updated_at = now()
		RETURNING score
	`, username, deviceID, score).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("upserting score: %w", err)
	}
	return best, nil
}

func (d *DB) TopScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT username, device_id, score, created_at, updated_at
		FROM leaderboard
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		if err := rows.Scan(&r.Username, &r.DeviceID, &r.Score, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) CountAbove(ctx context.Context, score int) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM leaderboard WHERE score > $1
	`, score).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting scores: %w", err)
	}
	return n, nil
}

// GetScore returns the stored score for username and whether the row exists.
func (d *DB) GetScore(ctx context.Context, username string) (int, bool, error) {
	var score int
	err := d.conn.QueryRowContext(ctx, `
		SELECT score FROM leaderboard WHERE username = $1
	`, username).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting score: %w", err)
	}
	return score, true, nil
}
