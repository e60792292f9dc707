package sessions

import (
	"errors"
	"sync"
	"time"

	"ordix/internal/achievements"
	"ordix/internal/round"
)

var (
	ErrNotFound        = errors.New("sessions: session not found")
	ErrRoundInProgress = errors.New("sessions: round still in progress")
	ErrNoRound         = errors.New("sessions: no round started")
)

// Completion describes a round that just finished.
type Completion struct {
	Round        round.Round          `json:"round"`
	Outcome      achievements.Outcome `json:"outcome"`
	SessionScore int                  `json:"sessionScore"`
	// RunOver is set on a loss; the next Start begins a fresh run.
	RunOver bool `json:"runOver"`
}

// View is a point-in-time copy of a session.
type View struct {
	ID            string       `json:"id"`
	RoundsPlayed  int          `json:"roundsPlayed"`
	SessionScore  int          `json:"sessionScore"`
	RunOver       bool         `json:"runOver"`
	Round         *round.Round `json:"round,omitempty"`
	CurrentNumber int          `json:"currentNumber,omitempty"`
	NextIsBonus   bool         `json:"nextIsBonus"`
}

// Session is one player's run of consecutive rounds. Its methods are safe for
// concurrent use.
type Session struct {
	ID        string
	PlayerID  string
	CreatedAt time.Time

	mu           sync.Mutex
	engine       *round.Engine
	now          func() time.Time
	lastActive   time.Time
	current      *round.Round
	roundsPlayed int
	sessionScore int
	rejected     int
	startedAt    time.Time
	runOver      bool
	// pending holds outcomes of finished rounds not yet stored.
	pending []achievements.Outcome
}

func newSession(id, playerID string, engine *round.Engine, now func() time.Time) *Session {
	t := now()
	return &Session{
		ID:         id,
		PlayerID:   playerID,
		CreatedAt:  t,
		engine:     engine,
		now:        now,
		lastActive: t,
	}
}

// Start begins the next round. After a loss it first resets the run.
func (s *Session) Start() (round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.Finished() {
		return round.Round{}, ErrRoundInProgress
	}
	if s.runOver {
		s.roundsPlayed = 0
		s.sessionScore = 0
		s.runOver = false
	}

	s.current = s.engine.StartRound(s.roundsPlayed)
	s.rejected = 0
	s.startedAt = s.now()
	s.lastActive = s.startedAt
	return copyRound(s.current), nil
}

// Place puts the current number into slot. The Completion is non-nil only
// when this placement finished the round.
func (s *Session) Place(slot int) (round.PlacementResult, *Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return round.PlacementResult{}, nil, ErrNoRound
	}
	now := s.now()
	s.lastActive = now

	res := s.engine.PlaceNumber(s.current, slot)
	if !res.Accepted {
		s.rejected++
		return res, nil, nil
	}
	if !res.Won && !res.Lost {
		return res, nil, nil
	}

	s.roundsPlayed++
	s.sessionScore += s.current.Score
	s.runOver = res.Lost

	c := &Completion{
		Round: copyRound(s.current),
		Outcome: achievements.Outcome{
			Score:           s.current.Score,
			DurationSeconds: now.Sub(s.startedAt).Seconds(),
			Perfect:         res.Won && s.rejected == 0,
			Won:             res.Won,
			RunScore:        s.sessionScore,
		},
		SessionScore: s.sessionScore,
		RunOver:      res.Lost,
	}
	s.pending = append(s.pending, c.Outcome)
	return res, c, nil
}

// TakePending removes and returns the outcomes of finished rounds that have
// not been stored yet, oldest first.
func (s *Session) TakePending() []achievements.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// RestorePending puts back outcomes that could not be stored. They are kept
// ahead of anything finished since.
func (s *Session) RestorePending(outcomes []achievements.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(append([]achievements.Outcome(nil), outcomes...), s.pending...)
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.roundsPlayed
	if s.runOver {
		next = 0
	}
	v := View{
		ID:           s.ID,
		RoundsPlayed: s.roundsPlayed,
		SessionScore: s.sessionScore,
		RunOver:      s.runOver,
		NextIsBonus:  s.engine.IsBonus(next + 1),
	}
	if s.current != nil {
		r := copyRound(s.current)
		v.Round = &r
		v.CurrentNumber, _ = r.CurrentNumber()
	}
	return v
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func copyRound(r *round.Round) round.Round {
	c := *r
	c.DrawPool = append([]int(nil), r.DrawPool...)
	c.Placements = append([]round.Placement(nil), r.Placements...)
	if r.WrongPlacement != nil {
		wp := *r.WrongPlacement
		c.WrongPlacement = &wp
	}
	return c
}
