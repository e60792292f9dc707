package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(roundsStarted.WithLabelValues("true"))
	RoundStarted(true)
	assert.Equal(t, before+1, testutil.ToFloat64(roundsStarted.WithLabelValues("true")))

	before = testutil.ToFloat64(roundsFinished.WithLabelValues("lost"))
	RoundFinished(false)
	assert.Equal(t, before+1, testutil.ToFloat64(roundsFinished.WithLabelValues("lost")))

	before = testutil.ToFloat64(placementsRejected.WithLabelValues("slot_occupied"))
	PlacementRejected("slot_occupied")
	assert.Equal(t, before+1, testutil.ToFloat64(placementsRejected.WithLabelValues("slot_occupied")))

	before = testutil.ToFloat64(achievementsUnlocked.WithLabelValues("weekly"))
	AchievementUnlocked("weekly")
	assert.Equal(t, before+1, testutil.ToFloat64(achievementsUnlocked.WithLabelValues("weekly")))

	before = testutil.ToFloat64(leaderboardSubmissions.WithLabelValues("error"))
	LeaderboardSubmission(false)
	assert.Equal(t, before+1, testutil.ToFloat64(leaderboardSubmissions.WithLabelValues("error")))

	before = testutil.ToFloat64(leaderboardSubmissions.WithLabelValues("no_profile"))
	LeaderboardSkipped()
	assert.Equal(t, before+1, testutil.ToFloat64(leaderboardSubmissions.WithLabelValues("no_profile")))
}
