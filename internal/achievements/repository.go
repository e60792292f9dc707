package achievements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ordix/internal/kvstore"
)

func statsKey(playerID string) string {
	return "player:" + playerID + ":user_stats"
}

// Repository loads and saves Statistics as JSON in a key-value store.
type Repository struct {
	store   kvstore.Store
	tracker *Tracker
	logger  *zap.Logger
}

func NewRepository(store kvstore.Store, tracker *Tracker, logger *zap.Logger) *Repository {
	return &Repository{
		store:   store,
		tracker: tracker,
		logger:  logger.Named("achievements"),
	}
}

// Load returns the player's statistics. Missing or unreadable records yield
// first-run defaults; only storage failures are returned as errors.
func (r *Repository) Load(ctx context.Context, playerID string) (Statistics, error) {
	raw, err := r.store.Get(ctx, statsKey(playerID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return r.tracker.NewStatistics(), nil
	}
	if err != nil {
		return Statistics{}, fmt.Errorf("loading statistics: %w", err)
	}

	stats, err := Decode(raw)
	if err != nil {
		r.logger.Warn("Discarding unreadable statistics",
			zap.String("playerID", playerID),
			zap.Error(err),
		)
		return r.tracker.NewStatistics(), nil
	}
	return stats, nil
}

func (r *Repository) Save(ctx context.Context, playerID string, stats Statistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}
	if err := r.store.Set(ctx, statsKey(playerID), string(raw)); err != nil {
		return fmt.Errorf("saving statistics: %w", err)
	}
	return nil
}

var errMissingAchievements = errors.New("statistics record has no achievement list")

// Decode parses a stored statistics record and reconciles its achievement
// list with the current catalog.
func Decode(raw string) (Statistics, error) {
	var stats Statistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return Statistics{}, err
	}
	if stats.Achievements == nil {
		return Statistics{}, errMissingAchievements
	}
	stats.Achievements = reconcile(stats.Achievements)
	if stats.UnlockedBadges == nil {
		stats.UnlockedBadges = []string{}
	}
	return stats, nil
}

// reconcile keeps stored progress for catalog entries, drops retired ids and
// arms entries added since the record was written.
func reconcile(stored []State) []State {
	byID := make(map[ID]State, len(stored))
	for _, s := range stored {
		byID[s.ID] = s
	}
	out := make([]State, len(Catalog))
	for i, def := range Catalog {
		s, ok := byID[def.ID]
		if !ok {
			s = State{}
		}
		s.Definition = def
		out[i] = s
	}
	return out
}
