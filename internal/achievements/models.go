package achievements

import (
	"slices"
	"time"
)

type Period string

const (
	PeriodWeekly  = Period("weekly")
	PeriodMonthly = Period("monthly")
	PeriodGeneral = Period("general")
)

var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodGeneral}

func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodGeneral:
		return true
	}
	return false
}

type Metric string

const (
	MetricScore    = Metric("score")
	MetricGames    = Metric("games")
	MetricStreak   = Metric("streak")
	MetricSpeed    = Metric("speed")
	MetricAccuracy = Metric("accuracy")
)

type Reward struct {
	Points int    `json:"points"`
	Badge  string `json:"badge"`
}

type Definition struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Period      Period `json:"type"`
	Target      int    `json:"target"`
	Metric      Metric `json:"category"`
	// SingleGame score achievements track the best single game instead of a running total.
	SingleGame bool   `json:"singleGame,omitempty"`
	Reward     Reward `json:"reward"`
}

type State struct {
	Definition
	Current     float64    `json:"current"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (s *State) reset() {
	s.Current = 0
	s.Completed = false
	s.CompletedAt = nil
}

// Statistics is the persisted per-player record the tracker mutates after
// every completed round.
type Statistics struct {
	TotalGames             int       `json:"totalGames"`
	TotalScore             int       `json:"totalScore"`
	HighScore              int       `json:"highScore"`
	AverageScore           int       `json:"averageScore"`
	TotalPlayTimeSeconds   float64   `json:"totalPlayTime"`
	PerfectGameCount       int       `json:"perfectGames"`
	FastestGameSeconds     float64   `json:"fastestGame"`
	CurrentWinStreak       int       `json:"currentStreak"`
	LongestWinStreak       int       `json:"longestStreak"`
	GamesThisWeek          int       `json:"gamesThisWeek"`
	ScoreThisWeek          int       `json:"scoreThisWeek"`
	GamesThisMonth         int       `json:"gamesThisMonth"`
	ScoreThisMonth         int       `json:"scoreThisMonth"`
	LastPlayTimestamp      time.Time `json:"lastPlayDate"`
	Achievements           []State   `json:"achievements"`
	UnlockedBadges         []string  `json:"unlockedBadges"`
	TotalAchievementPoints int       `json:"totalAchievementPoints"`
}

// Clone returns a deep copy.
func (s Statistics) Clone() Statistics {
	c := s
	c.Achievements = make([]State, len(s.Achievements))
	for i, a := range s.Achievements {
		if a.CompletedAt != nil {
			at := *a.CompletedAt
			a.CompletedAt = &at
		}
		c.Achievements[i] = a
	}
	c.UnlockedBadges = slices.Clone(s.UnlockedBadges)
	return c
}

// Outcome is what the host reports once a round finishes.
type Outcome struct {
	Score           int     `json:"score"`
	DurationSeconds float64 `json:"durationSeconds"`
	Perfect         bool    `json:"isPerfect"`
	Won             bool    `json:"won"`
	// RunScore is the running total of the run the round belongs to. It
	// competes with Score for the high score.
	RunScore int `json:"runScore,omitempty"`
}

type PeriodProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type Progress map[Period]PeriodProgress
