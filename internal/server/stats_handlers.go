package server

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"ordix/internal/achievements"
	"ordix/internal/leaderboard"
	"ordix/internal/profile"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.achievements.Statistics(r.Context(), playerID(w, r))
	if err != nil {
		s.internalError(w, "Loading statistics failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	pid := playerID(w, r)
	period := r.URL.Query().Get("period")

	var (
		list []achievements.State
		err  error
	)
	switch {
	case period == "":
		var stats achievements.Statistics
		stats, err = s.achievements.Statistics(r.Context(), pid)
		list = stats.Achievements
	case period == "completed":
		list, err = s.achievements.Completed(r.Context(), pid)
	case achievements.Period(period).Valid():
		list, err = s.achievements.ByPeriod(r.Context(), pid, achievements.Period(period))
	default:
		writeError(w, http.StatusBadRequest, "invalid_period")
		return
	}
	if err != nil {
		s.internalError(w, "Loading achievements failed", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.achievements.Progress(r.Context(), playerID(w, r))
	if err != nil {
		s.internalError(w, "Loading progress failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), playerID(w, r))
	if errors.Is(err, profile.ErrNoProfile) {
		writeError(w, http.StatusNotFound, "no_profile")
		return
	}
	if err != nil {
		s.internalError(w, "Loading profile failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type saveProfileRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	pid := playerID(w, r)
	var req saveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	p, err := s.profiles.SaveUsername(r.Context(), pid, req.Username)
	switch {
	case errors.Is(err, profile.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "invalid_username")
	case errors.Is(err, leaderboard.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
	case err != nil:
		s.internalError(w, "Saving profile failed", err)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) handleClearProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Clear(r.Context(), playerID(w, r)); err != nil {
		s.internalError(w, "Clearing profile failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.board.TopScores(r.Context(), limit)
	if err != nil {
		s.logger.Error("Loading leaderboard failed", zap.Error(err))
		writeJSON(w, http.StatusOK, []leaderboard.Entry{})
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type rankResponse struct {
	Username string `json:"username,omitempty"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// handleRank ranks ?score= when given, otherwise the caller's best score.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var out rankResponse

	if raw := r.URL.Query().Get("score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_score")
			return
		}
		out.Score = score
	} else {
		p, err := s.profiles.Get(ctx, playerID(w, r))
		if errors.Is(err, profile.ErrNoProfile) {
			writeError(w, http.StatusNotFound, "no_profile")
			return
		}
		if err != nil {
			s.internalError(w, "Loading profile failed", err)
			return
		}
		out.Username = p.Username
		best, err := s.board.BestScore(ctx, p.Username)
		if err != nil {
			s.internalError(w, "Loading best score failed", err)
			return
		}
		out.Score = max(best, p.HighScore)
	}

	rank, err := s.board.Rank(ctx, out.Score)
	if err != nil {
		s.internalError(w, "Computing rank failed", err)
		return
	}
	out.Rank = rank
	writeJSON(w, http.StatusOK, out)
}
