package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ordix/internal/achievements"
	"ordix/internal/events"
	"ordix/internal/metrics"
	"ordix/internal/profile"
	"ordix/internal/round"
	"ordix/internal/sessions"
)

type placeRequest struct {
	Slot *int `json:"slot"`
}

type placeResponse struct {
	Result        round.PlacementResult `json:"result"`
	Completion    *sessions.Completion  `json:"completion,omitempty"`
	NewlyUnlocked []achievements.State  `json:"newlyUnlocked,omitempty"`
	// Recorded is false when the outcome could not be stored yet; the session
	// keeps it and stores it before the next round starts.
	Recorded bool `json:"recorded"`
	// Submitted is set when a finished run was sent to the leaderboard.
	Submitted *bool `json:"submitted,omitempty"`
}

// session resolves the {id} URL parameter to a session owned by the caller.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, string, bool) {
	pid := playerID(w, r)
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil || sess.PlayerID != pid {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, "", false
	}
	return sess, pid, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	pid := playerID(w, r)
	sess := s.sessions.Create(pid)
	s.logger.Info("Session created", zap.String("sessionID", sess.ID), zap.String("playerID", pid))
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	sess, pid, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := s.recordPending(r.Context(), sess, pid); err != nil {
		s.logger.Warn("Round outcomes still unrecorded", zap.String("sessionID", sess.ID), zap.Error(err))
	}
	rd, err := sess.Start()
	if errors.Is(err, sessions.ErrRoundInProgress) {
		writeError(w, http.StatusConflict, "round_in_progress")
		return
	}
	if err != nil {
		s.internalError(w, "Starting round failed", err)
		return
	}

	metrics.RoundStarted(rd.Bonus)
	s.bus.Publish(events.Event{
		Type:      events.RoundStarted,
		PlayerID:  pid,
		SessionID: sess.ID,
		Data:      map[string]any{"index": rd.Index, "bonus": rd.Bonus},
	})
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sess, pid, ok := s.session(w, r)
	if !ok {
		return
	}
	var req placeRequest
	if err := decodeJSON(r, &req); err != nil || req.Slot == nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	res, completion, err := sess.Place(*req.Slot)
	if errors.Is(err, sessions.ErrNoRound) {
		writeError(w, http.StatusConflict, "no_round")
		return
	}
	if err != nil {
		s.internalError(w, "Placement failed", err)
		return
	}

	if !res.Accepted {
		metrics.PlacementRejected(string(res.Reason))
	}
	s.bus.Publish(events.Event{Type: events.Placement, PlayerID: pid, SessionID: sess.ID, Data: res})

	out := placeResponse{Result: res, Completion: completion}
	if completion != nil {
		out.NewlyUnlocked, out.Recorded, out.Submitted = s.finishRound(r, sess, pid, completion)
	}
	writeJSON(w, http.StatusOK, out)
}

// finishRound announces the round, records its outcome and, when the run is
// over, submits the session score. A storage failure leaves the outcome
// pending on the session.
func (s *Server) finishRound(r *http.Request, sess *sessions.Session, pid string, c *sessions.Completion) ([]achievements.State, bool, *bool) {
	ctx := r.Context()
	metrics.RoundFinished(c.Outcome.Won)
	s.bus.Publish(events.Event{Type: events.RoundFinished, PlayerID: pid, SessionID: sess.ID, Data: c})

	unlocked, err := s.recordPending(ctx, sess, pid)
	recorded := err == nil
	if err != nil {
		s.logger.Error("Recording round outcome failed",
			zap.String("sessionID", sess.ID),
			zap.String("playerID", pid),
			zap.Error(err),
		)
	}

	if !c.RunOver {
		return unlocked, recorded, nil
	}
	submitted := s.submitRun(ctx, pid, c.SessionScore)
	return unlocked, recorded, &submitted
}

// recordPending stores the session's unrecorded outcomes in order and
// announces what they unlock. Outcomes from the first failure on are put back.
func (s *Server) recordPending(ctx context.Context, sess *sessions.Session, pid string) ([]achievements.State, error) {
	pending := sess.TakePending()
	unlocked := []achievements.State{}
	for i, o := range pending {
		result, err := s.achievements.RecordRoundOutcome(ctx, pid, o)
		if err != nil {
			sess.RestorePending(pending[i:])
			return unlocked, err
		}
		for _, a := range result.NewlyUnlocked {
			metrics.AchievementUnlocked(string(a.Period))
			s.bus.Publish(events.Event{Type: events.AchievementUnlocked, PlayerID: pid, SessionID: sess.ID, Data: a})
		}
		unlocked = append(unlocked, result.NewlyUnlocked...)
	}
	return unlocked, nil
}

func (s *Server) submitRun(ctx context.Context, pid string, score int) bool {
	if _, err := s.profiles.Get(ctx, pid); errors.Is(err, profile.ErrNoProfile) {
		metrics.LeaderboardSkipped()
		return false
	}
	_, ok := s.profiles.SubmitScore(ctx, pid, score)
	metrics.LeaderboardSubmission(ok)
	return ok
}
