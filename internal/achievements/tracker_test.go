package achievements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTracker(start time.Time) (*Tracker, *fakeClock) {
	clock := &fakeClock{t: start}
	return NewTracker(WithClock(clock.Now), WithLocation(time.UTC)), clock
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func findState(states []State, id ID) (State, bool) {
	for _, s := range states {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}

func hasAchievement(states []State, id ID) bool {
	_, ok := findState(states, id)
	return ok
}

func TestNewStatistics_ArmsWholeCatalog(t *testing.T) {
	tr, clock := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	require.Len(t, stats.Achievements, len(Catalog))
	for i, a := range stats.Achievements {
		assert.Equal(t, Catalog[i].ID, a.ID)
		assert.False(t, a.Completed)
		assert.Zero(t, a.Current)
		assert.Nil(t, a.CompletedAt)
	}
	assert.Equal(t, clock.t, stats.LastPlayTimestamp)
	assert.Empty(t, stats.UnlockedBadges)
}

func TestCatalog_IDsUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for _, d := range Catalog {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.True(t, d.Period.Valid(), "invalid period on %s", d.ID)
		assert.Positive(t, d.Target)
	}
}

func TestRecordRoundOutcome_HighScoreRound(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	next, unlocked := tr.RecordRoundOutcome(stats, Outcome{Score: 1000, DurationSeconds: 25, Won: true})

	assert.True(t, hasAchievement(unlocked, GeneralHighScore500))
	assert.True(t, hasAchievement(unlocked, GeneralHighScore1k))

	rewards := 0
	for _, a := range unlocked {
		rewards += a.Reward.Points
		assert.True(t, a.Completed)
		require.NotNil(t, a.CompletedAt)
	}
	assert.Equal(t, rewards, next.TotalAchievementPoints)
	assert.GreaterOrEqual(t, next.TotalAchievementPoints, 1300)

	assert.Equal(t, 1, next.CurrentWinStreak)
	assert.Equal(t, 1, next.LongestWinStreak)
	assert.Equal(t, 1000, next.HighScore)
	assert.Equal(t, 1000, next.AverageScore)
	assert.Equal(t, 1, next.TotalGames)
	assert.Equal(t, 25.0, next.FastestGameSeconds)
	assert.Equal(t, 25.0, next.TotalPlayTimeSeconds)

	// The input value is left untouched.
	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.TotalAchievementPoints)
	for _, a := range stats.Achievements {
		assert.False(t, a.Completed)
	}
}

func TestRecordRoundOutcome_RunScoreDrivesHighScore(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	stats, unlocked := tr.RecordRoundOutcome(stats, Outcome{Score: 100, DurationSeconds: 40, Won: true, RunScore: 400})
	assert.False(t, hasAchievement(unlocked, GeneralHighScore500))
	assert.Equal(t, 400, stats.HighScore)
	assert.Equal(t, 100, stats.TotalScore)

	stats, unlocked = tr.RecordRoundOutcome(stats, Outcome{Score: 100, DurationSeconds: 40, Won: true, RunScore: 500})
	assert.True(t, hasAchievement(unlocked, GeneralHighScore500))
	assert.False(t, hasAchievement(unlocked, GeneralHighScore1k))
	assert.Equal(t, 500, stats.HighScore)
	assert.Equal(t, 200, stats.TotalScore)

	// A new run starting low never lowers the high score.
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40, RunScore: 10})
	assert.Equal(t, 500, stats.HighScore)
}

func TestRecordRoundOutcome_AppliesCounters(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 40, DurationSeconds: 50, Won: false})
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 100, DurationSeconds: 45, Won: true, Perfect: true})
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 75, DurationSeconds: 60, Won: true})

	assert.Equal(t, 3, stats.TotalGames)
	assert.Equal(t, 215, stats.TotalScore)
	assert.Equal(t, 72, stats.AverageScore)
	assert.Equal(t, 100, stats.HighScore)
	assert.Equal(t, 155.0, stats.TotalPlayTimeSeconds)
	assert.Equal(t, 45.0, stats.FastestGameSeconds)
	assert.Equal(t, 1, stats.PerfectGameCount)
	assert.Equal(t, 2, stats.CurrentWinStreak)
	assert.Equal(t, 2, stats.LongestWinStreak)
	assert.Equal(t, 3, stats.GamesThisWeek)
	assert.Equal(t, 215, stats.ScoreThisWeek)
	assert.Equal(t, 3, stats.GamesThisMonth)
	assert.Equal(t, 215, stats.ScoreThisMonth)

	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 70})
	assert.Equal(t, 0, stats.CurrentWinStreak)
	assert.Equal(t, 2, stats.LongestWinStreak)
}

func TestRecordRoundOutcome_WeekRolloverRearmsWeekly(t *testing.T) {
	tr, clock := newTestTracker(date(2026, time.October, 12))
	stats := tr.NewStatistics()

	for i := 0; i < 5; i++ {
		stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})
	}
	weekly, _ := findState(stats.Achievements, WeeklyGames5)
	require.True(t, weekly.Completed)
	pointsBefore := stats.TotalAchievementPoints

	clock.t = date(2026, time.October, 19)
	stats, unlocked := tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})

	assert.Equal(t, 1, stats.GamesThisWeek)
	assert.Equal(t, 10, stats.ScoreThisWeek)
	weekly, _ = findState(stats.Achievements, WeeklyGames5)
	assert.False(t, weekly.Completed)
	assert.Nil(t, weekly.CompletedAt)
	assert.Equal(t, 1.0, weekly.Current)
	assert.False(t, hasAchievement(unlocked, WeeklyGames5))

	// Same month, so monthly counters keep accumulating.
	assert.Equal(t, 6, stats.GamesThisMonth)
	assert.Equal(t, pointsBefore, stats.TotalAchievementPoints)
	assert.Equal(t, 6, stats.TotalGames)
}

func TestRecordRoundOutcome_WeeklyAchievementUnlocksAgainAfterRollover(t *testing.T) {
	tr, clock := newTestTracker(date(2026, time.October, 12))
	stats := tr.NewStatistics()

	for i := 0; i < 5; i++ {
		stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})
	}
	clock.t = date(2026, time.October, 20)

	var unlocked []State
	for i := 0; i < 5; i++ {
		stats, unlocked = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})
	}
	assert.True(t, hasAchievement(unlocked, WeeklyGames5))
	assert.Equal(t, 2*50, stats.TotalAchievementPoints)
	assert.Equal(t, []string{"🎮"}, stats.UnlockedBadges)
}

func TestRecordRoundOutcome_MonthRolloverWithinSameWeek(t *testing.T) {
	// Saturday Oct 31 and Sunday Nov 1 2026 share an ISO week.
	tr, clock := newTestTracker(date(2026, time.October, 31))
	stats := tr.NewStatistics()
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 30, DurationSeconds: 40})
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 30, DurationSeconds: 40})

	clock.t = date(2026, time.November, 1)
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 20, DurationSeconds: 40})

	assert.Equal(t, 1, stats.GamesThisMonth)
	assert.Equal(t, 20, stats.ScoreThisMonth)
	assert.Equal(t, 3, stats.GamesThisWeek)
	assert.Equal(t, 80, stats.ScoreThisWeek)

	monthly, _ := findState(stats.Achievements, MonthlyGames30)
	assert.Equal(t, 1.0, monthly.Current)
}

func TestRecordRoundOutcome_RolloverOneYearApart(t *testing.T) {
	tr, clock := newTestTracker(date(2025, time.October, 15))
	stats := tr.NewStatistics()
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})

	clock.t = date(2026, time.October, 14)
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40})

	assert.Equal(t, 1, stats.GamesThisWeek)
	assert.Equal(t, 1, stats.GamesThisMonth)
}

func TestRecordRoundOutcome_SpeedAchievement(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	stats, unlocked := tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 45})
	assert.False(t, hasAchievement(unlocked, GeneralSpeed30))
	stats, unlocked = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 31})
	assert.False(t, hasAchievement(unlocked, GeneralSpeed30))

	speed, _ := findState(stats.Achievements, GeneralSpeed30)
	assert.False(t, speed.Completed)
	assert.Equal(t, 31.0, speed.Current)

	stats, unlocked = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 30})
	assert.True(t, hasAchievement(unlocked, GeneralSpeed30))
	assert.False(t, hasAchievement(unlocked, GeneralSpeed20))

	_, unlocked = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 12.5})
	assert.True(t, hasAchievement(unlocked, GeneralSpeed20))
	assert.False(t, hasAchievement(unlocked, GeneralSpeed30))
}

func TestRecordRoundOutcome_UnlocksOnlyOnce(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	stats, first := tr.RecordRoundOutcome(stats, Outcome{Score: 600, DurationSeconds: 50, Won: true})
	require.True(t, hasAchievement(first, GeneralHighScore500))
	points := stats.TotalAchievementPoints

	stats, second := tr.RecordRoundOutcome(stats, Outcome{Score: 600, DurationSeconds: 50, Won: true})
	assert.False(t, hasAchievement(second, GeneralHighScore500))
	for _, a := range second {
		points += a.Reward.Points
	}
	assert.Equal(t, points, stats.TotalAchievementPoints)
}

func TestRecordRoundOutcome_SharedBadgeGrantedOnce(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	// weekly_streak_5 and general_streak_10 share a badge.
	for i := 0; i < 10; i++ {
		stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40, Won: true})
	}
	streak, _ := findState(stats.Achievements, GeneralStreak10)
	require.True(t, streak.Completed)

	count := 0
	for _, b := range stats.UnlockedBadges {
		if b == "🔥" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRecordRoundOutcome_StreakScopes(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	for i := 0; i < 3; i++ {
		stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40, Won: true})
	}
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 0, DurationSeconds: 40})
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 10, DurationSeconds: 40, Won: true})

	weekly, _ := findState(stats.Achievements, WeeklyStreak5)
	general, _ := findState(stats.Achievements, GeneralStreak10)
	assert.Equal(t, 1.0, weekly.Current)
	assert.Equal(t, 3.0, general.Current)
}

func TestRecordRoundOutcome_MultipleThresholdsAtOnce(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()

	_, unlocked := tr.RecordRoundOutcome(stats, Outcome{Score: 10000, DurationSeconds: 15, Won: true})

	for _, id := range []ID{WeeklyScore1000, MonthlyScore10000, GeneralHighScore500, GeneralHighScore1k, GeneralSpeed30, GeneralSpeed20} {
		assert.True(t, hasAchievement(unlocked, id), "expected %s", id)
	}
	assert.False(t, hasAchievement(unlocked, GeneralGames100))
}

func TestByPeriodAndProgress(t *testing.T) {
	tr, _ := newTestTracker(date(2026, time.October, 14))
	stats := tr.NewStatistics()
	stats, _ = tr.RecordRoundOutcome(stats, Outcome{Score: 1000, DurationSeconds: 25, Won: true})

	weekly := ByPeriod(stats, PeriodWeekly)
	monthly := ByPeriod(stats, PeriodMonthly)
	general := ByPeriod(stats, PeriodGeneral)
	assert.Len(t, weekly, 4)
	assert.Len(t, monthly, 4)
	assert.Len(t, general, 10)
	for _, a := range weekly {
		assert.Equal(t, PeriodWeekly, a.Period)
	}
	assert.Empty(t, ByPeriod(stats, Period("daily")))

	p := ProgressOf(stats)
	assert.Equal(t, PeriodProgress{Completed: 1, Total: 4}, p[PeriodWeekly])
	assert.Equal(t, PeriodProgress{Completed: 0, Total: 4}, p[PeriodMonthly])
	assert.Equal(t, PeriodProgress{Completed: 3, Total: 10}, p[PeriodGeneral])

	assert.Len(t, Completed(stats), 4)
}
