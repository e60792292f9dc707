package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ordix/internal/achievements"
	"ordix/internal/events"
	"ordix/internal/leaderboard"
	"ordix/internal/profile"
	"ordix/internal/sessions"
	"ordix/internal/wshub"
)

const playerCookie = "player_id"

type Deps struct {
	Sessions     *sessions.Store
	Achievements *achievements.Service
	Profiles     *profile.Service
	Leaderboard  leaderboard.Leaderboard
	Hub          *wshub.Hub
	Bus          *events.Bus
	Logger       *zap.Logger
}

type Server struct {
	r            *chi.Mux
	sessions     *sessions.Store
	achievements *achievements.Service
	profiles     *profile.Service
	board        leaderboard.Leaderboard
	hub          *wshub.Hub
	bus          *events.Bus
	logger       *zap.Logger
}

func New(d Deps) *Server {
	s := &Server{
		r:            chi.NewRouter(),
		sessions:     d.Sessions,
		achievements: d.Achievements,
		profiles:     d.Profiles,
		board:        d.Leaderboard,
		hub:          d.Hub,
		bus:          d.Bus,
		logger:       d.Logger.Named("server"),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/health", s.handleHealth)
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Get("/ws", s.handleWebSocket)

	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(chimw.Timeout(10 * time.Second))

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/rounds", s.handleStartRound)
			r.Post("/place", s.handlePlace)
		})

		r.Get("/stats", s.handleStats)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/achievements/progress", s.handleProgress)

		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile", s.handleSaveProfile)
		r.Delete("/profile", s.handleClearProfile)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/rank", s.handleRank)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", chimw.GetReqID(r.Context())),
		)
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// playerID returns the caller's id from the player cookie, issuing a new one
// when the request has none.
func playerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
	return id
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
