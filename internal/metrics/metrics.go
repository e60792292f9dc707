package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordix_rounds_started_total",
			Help: "Total number of rounds started, by bonus flag.",
		},
		[]string{"bonus"},
	)

	roundsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordix_rounds_finished_total",
			Help: "Total number of rounds finished, by result.",
		},
		[]string{"result"},
	)

	placementsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordix_placements_rejected_total",
			Help: "Total number of rejected placements, by reason.",
		},
		[]string{"reason"},
	)

	achievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordix_achievements_unlocked_total",
			Help: "Total number of achievements unlocked, by period.",
		},
		[]string{"period"},
	)

	leaderboardSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordix_leaderboard_submissions_total",
			Help: "Total number of leaderboard score submissions, by result.",
		},
		[]string{"result"},
	)
)

func RoundStarted(bonus bool) {
	roundsStarted.WithLabelValues(strconv.FormatBool(bonus)).Inc()
}

func RoundFinished(won bool) {
	result := "lost"
	if won {
		result = "won"
	}
	roundsFinished.WithLabelValues(result).Inc()
}

func PlacementRejected(reason string) {
	placementsRejected.WithLabelValues(reason).Inc()
}

func AchievementUnlocked(period string) {
	achievementsUnlocked.WithLabelValues(period).Inc()
}

func LeaderboardSubmission(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	leaderboardSubmissions.WithLabelValues(result).Inc()
}

// LeaderboardSkipped counts finished runs of players without a username.
func LeaderboardSkipped() {
	leaderboardSubmissions.WithLabelValues("no_profile").Inc()
}
