package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordix/internal/kvstore"
	"ordix/internal/leaderboard"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var (
	ErrNoProfile       = errors.New("profile: no username saved")
	ErrInvalidUsername = fmt.Errorf("profile: username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
)

// Profile is the locally cached username record.
type Profile struct {
	Username   string `json:"username"`
	HighScore  int    `json:"highScore"`
	TotalGames int    `json:"totalGames"`
	DeviceID   string `json:"deviceId"`
}

func dataKey(playerID string) string   { return "player:" + playerID + ":user_data" }
func deviceKey(playerID string) string { return "player:" + playerID + ":device_id" }

// ValidateUsername trims name and checks its length in characters.
func ValidateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinUsernameLength || n > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return name, nil
}

// Service keeps the local profile in a kvstore and mirrors scores to an
// optional remote leaderboard.
type Service struct {
	store  kvstore.Store
	board  leaderboard.Leaderboard
	logger *zap.Logger

	mu sync.Mutex
}

// NewService returns a profile service. board may be nil, in which case
// everything stays local.
func NewService(store kvstore.Store, board leaderboard.Leaderboard, logger *zap.Logger) *Service {
	return &Service{store: store, board: board, logger: logger.Named("profile")}
}

func (s *Service) Get(ctx context.Context, playerID string) (Profile, error) {
	raw, err := s.store.Get(ctx, dataKey(playerID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return Profile{}, ErrNoProfile
	}
	if err != nil {
		return Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("Discarding unreadable profile", zap.String("playerID", playerID), zap.Error(err))
		return Profile{}, ErrNoProfile
	}
	return p, nil
}

func (s *Service) put(ctx context.Context, playerID string, p Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := s.store.Set(ctx, dataKey(playerID), string(raw)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// DeviceID returns the player's device id, generating and storing one on
// first use.
func (s *Service) DeviceID(ctx context.Context, playerID string) string {
	id, err := s.store.Get(ctx, deviceKey(playerID))
	if err == nil && id != "" {
		return id
	}
	id = "device_" + uuid.NewString()
	if err := s.store.Set(ctx, deviceKey(playerID), id); err != nil {
		s.logger.Warn("Could not persist device id", zap.String("playerID", playerID), zap.Error(err))
		return "temp_" + uuid.NewString()
	}
	return id
}

// SaveUsername validates and stores username as a fresh profile and registers
// it on the leaderboard. A name already on the board is rejected unless it is
// the player's own.
func (s *Service) SaveUsername(ctx context.Context, playerID, username string) (Profile, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx, playerID)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return Profile{}, err
	}
	if s.board != nil && current.Username != username {
		taken, err := s.board.UsernameExists(ctx, username)
		if err != nil {
			s.logger.Warn("Username availability check failed", zap.String("username", username), zap.Error(err))
		} else if taken {
			return Profile{}, leaderboard.ErrUsernameTaken
		}
	}

	p := Profile{Username: username, DeviceID: s.DeviceID(ctx, playerID)}
	if err := s.put(ctx, playerID, p); err != nil {
		return Profile{}, err
	}

	if s.board != nil {
		if _, err := s.board.UpsertBestScore(ctx, username, p.DeviceID, 0); err != nil {
			s.logger.Warn("Registering username on leaderboard failed", zap.String("username", username), zap.Error(err))
		}
	}
	s.logger.Info("Username saved", zap.String("playerID", playerID), zap.String("username", username))
	return p, nil
}

// SubmitScore records score against the player's profile and leaderboard
// entry. It reports false, without touching the local profile, when there is
// no profile or the remote write fails.
func (s *Service) SubmitScore(ctx context.Context, playerID string, score int) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, playerID)
	if err != nil {
		s.logger.Warn("Score submitted without a profile", zap.String("playerID", playerID), zap.Error(err))
		return Profile{}, false
	}

	if s.board != nil {
		if _, err := s.board.UpsertBestScore(ctx, p.Username, p.DeviceID, score); err != nil {
			s.logger.Error("Submitting score failed", zap.String("username", p.Username), zap.Int("score", score), zap.Error(err))
			return p, false
		}
	}

	p.HighScore = max(p.HighScore, score)
	p.TotalGames++
	if err := s.put(ctx, playerID, p); err != nil {
		s.logger.Error("Updating local profile failed", zap.String("playerID", playerID), zap.Error(err))
		return p, false
	}
	return p, true
}

// Clear removes the cached profile and device id.
func (s *Service) Clear(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, dataKey(playerID)); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}
	if err := s.store.Delete(ctx, deviceKey(playerID)); err != nil {
		return fmt.Errorf("clearing device id: %w", err)
	}
	return nil
}
