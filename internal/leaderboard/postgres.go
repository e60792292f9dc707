package leaderboard

import (
	"context"

	"ordix/internal/db"
)

// Postgres keeps the board in the leaderboard table of a PostgreSQL database.
type Postgres struct {
	db *db.DB
}

func NewPostgres(database *db.DB) *Postgres {
	return &Postgres{db: database}
}

func (p *Postgres) UpsertBestScore(ctx context.Context, username, deviceID string, score int) (int, error) {
	return p.db.UpsertBestScore(ctx, username, deviceID, score)
}

func (p *Postgres) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	records, err := p.db.TopScores(ctx, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(records))
	for i, r := range records {
		out[i] = Entry{
			Username:  r.Username,
			DeviceID:  r.DeviceID,
			Score:     r.Score,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return out, nil
}

func (p *Postgres) Rank(ctx context.Context, score int) (int, error) {
	n, err := p.db.CountAbove(ctx, score)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (p *Postgres) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok, err := p.db.GetScore(ctx, username)
	return ok, err
}

func (p *Postgres) BestScore(ctx context.Context, username string) (int, error) {
	score, _, err := p.db.GetScore(ctx, username)
	return score, err
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
