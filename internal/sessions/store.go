package sessions

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"ordix/internal/round"
)

const (
	DefaultTTL    = time.Hour
	sweepInterval = 5 * time.Minute
)

// Store holds live sessions in memory and evicts idle ones.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      round.Config
	ttl      time.Duration
	now      func() time.Time
	// newRand seeds each session's engine; nil uses a time-seeded source.
	newRand func() *rand.Rand
}

func NewStore(cfg round.Config, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Create(playerID string) *Session {
	var rng *rand.Rand
	if s.newRand != nil {
		rng = s.newRand()
	}
	sess := newSession(uuid.NewString(), playerID, round.NewEngine(s.cfg, rng), s.now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
