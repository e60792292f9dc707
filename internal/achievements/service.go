package achievements

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Result struct {
	Stats         Statistics `json:"stats"`
	NewlyUnlocked []State    `json:"newlyUnlocked"`
}

// Service runs the load, record, save sequence for a player as a critical
// section so concurrent outcomes cannot overwrite each other.
type Service struct {
	repo    *Repository
	tracker *Tracker
	logger  *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo *Repository, tracker *Tracker, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		tracker: tracker,
		logger:  logger.Named("achievements"),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Service) playerLock(playerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[playerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[playerID] = l
	}
	return l
}

func (s *Service) RecordRoundOutcome(ctx context.Context, playerID string, o Outcome) (Result, error) {
	l := s.playerLock(playerID)
	l.Lock()
	defer l.Unlock()

	stats, err := s.repo.Load(ctx, playerID)
	if err != nil {
		return Result{}, err
	}
	next, unlocked := s.tracker.RecordRoundOutcome(stats, o)
	if err := s.repo.Save(ctx, playerID, next); err != nil {
		return Result{}, err
	}

	for _, a := range unlocked {
		s.logger.Info("Achievement unlocked",
			zap.String("playerID", playerID),
			zap.String("achievement", string(a.ID)),
			zap.Int("points", a.Reward.Points),
		)
	}
	if unlocked == nil {
		unlocked = []State{}
	}
	return Result{Stats: next, NewlyUnlocked: unlocked}, nil
}

func (s *Service) Statistics(ctx context.Context, playerID string) (Statistics, error) {
	return s.repo.Load(ctx, playerID)
}

func (s *Service) ByPeriod(ctx context.Context, playerID string, p Period) ([]State, error) {
	stats, err := s.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return ByPeriod(stats, p), nil
}

func (s *Service) Completed(ctx context.Context, playerID string) ([]State, error) {
	stats, err := s.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return Completed(stats), nil
}

func (s *Service) Progress(ctx context.Context, playerID string) (Progress, error) {
	stats, err := s.repo.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return ProgressOf(stats), nil
}
