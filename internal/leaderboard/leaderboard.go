package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ordix/internal/db"
)

const DefaultLimit = 100

var ErrUsernameTaken = errors.New("leaderboard: username already taken")

// Entry is one player's best score. Usernames are unique on the board.
type Entry struct {
	Username  string    `json:"username" firestore:"username"`
	DeviceID  string    `json:"deviceId,omitempty" firestore:"deviceId"`
	Score     int       `json:"score" firestore:"score"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Leaderboard is the remote best-score table shared by all players.
type Leaderboard interface {
	// UpsertBestScore creates the entry or raises its score, returning the
	// stored best. A score of 0 only registers the name.
	UpsertBestScore(ctx context.Context, username, deviceID string, score int) (int, error)
	// TopScores returns up to limit entries, highest first. limit <= 0 means DefaultLimit.
	TopScores(ctx context.Context, limit int) ([]Entry, error)
	// Rank is one plus the number of entries strictly above score.
	Rank(ctx context.Context, score int) (int, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// BestScore returns 0 for unknown usernames.
	BestScore(ctx context.Context, username string) (int, error)
	Close() error
}

type Config struct {
	Driver                  string
	DatabaseURL             string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	FirebaseProjectID       string
	FirebaseCredentialsPath string
}

// Open builds the leaderboard selected by cfg.Driver.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Leaderboard, error) {
	logger = logger.Named("leaderboard")
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		database, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return NewPostgres(database), nil
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "firestore":
		return OpenFirestore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath, logger)
	default:
		return nil, fmt.Errorf("unknown leaderboard driver: %s", cfg.Driver)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
