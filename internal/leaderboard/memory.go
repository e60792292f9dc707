package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry), now: time.Now}
}

func (m *Memory) UpsertBestScore(_ context.Context, username, deviceID string, score int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[username]
	if !ok {
		e = Entry{Username: username, CreatedAt: now}
	}
	e.DeviceID = deviceID
	e.Score = max(e.Score, score)
	e.UpdatedAt = now
	m.entries[username] = e
	return e.Score, nil
}

func (m *Memory) TopScores(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Rank(_ context.Context, score int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rank := 1
	for _, e := range m.entries {
		if e.Score > score {
			rank++
		}
	}
	return rank, nil
}

func (m *Memory) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[username]
	return ok, nil
}

func (m *Memory) BestScore(_ context.Context, username string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[username].Score, nil
}

func (m *Memory) Close() error { return nil }
