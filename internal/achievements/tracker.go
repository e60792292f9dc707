package achievements

import (
	"math"
	"slices"
	"time"
)

// Tracker applies round outcomes to Statistics and reports newly unlocked
// achievements. It holds no player state of its own.
type Tracker struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the calendar used for week and month rollover.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStatistics returns first-run statistics with every catalog entry armed.
func (t *Tracker) NewStatistics() Statistics {
	states := make([]State, len(Catalog))
	for i, def := range Catalog {
		states[i] = State{Definition: def}
	}
	return Statistics{
		LastPlayTimestamp: t.now(),
		Achievements:      states,
		UnlockedBadges:    []string{},
	}
}

// RecordRoundOutcome returns stats updated with o and the achievements it
// unlocked. The input value is not modified.
func (t *Tracker) RecordRoundOutcome(stats Statistics, o Outcome) (Statistics, []State) {
	now := t.now()
	next := stats.Clone()

	t.rollover(&next, now)
	apply(&next, o, now)
	unlocked := evaluate(&next, now)
	return next, unlocked
}

func (t *Tracker) rollover(s *Statistics, now time.Time) {
	cur := now.In(t.loc)
	last := s.LastPlayTimestamp.In(t.loc)

	curYear, curWeek := cur.ISOWeek()
	lastYear, lastWeek := last.ISOWeek()
	if curYear != lastYear || curWeek != lastWeek {
		s.GamesThisWeek = 0
		s.ScoreThisWeek = 0
		resetPeriod(s, PeriodWeekly)
	}

	if cur.Year() != last.Year() || cur.Month() != last.Month() {
		s.GamesThisMonth = 0
		s.ScoreThisMonth = 0
		resetPeriod(s, PeriodMonthly)
	}
}

func resetPeriod(s *Statistics, p Period) {
	for i := range s.Achievements {
		if s.Achievements[i].Period == p {
			s.Achievements[i].reset()
		}
	}
}

func apply(s *Statistics, o Outcome, now time.Time) {
	s.TotalGames++
	s.TotalScore += o.Score
	s.TotalPlayTimeSeconds += o.DurationSeconds
	s.LastPlayTimestamp = now

	s.HighScore = max(s.HighScore, o.Score, o.RunScore)
	s.AverageScore = int(math.Round(float64(s.TotalScore) / float64(s.TotalGames)))

	s.GamesThisWeek++
	s.GamesThisMonth++
	s.ScoreThisWeek += o.Score
	s.ScoreThisMonth += o.Score

	if o.Won {
		s.CurrentWinStreak++
		if s.CurrentWinStreak > s.LongestWinStreak {
			s.LongestWinStreak = s.CurrentWinStreak
		}
	} else {
		s.CurrentWinStreak = 0
	}

	if o.Perfect {
		s.PerfectGameCount++
	}

	if s.FastestGameSeconds == 0 || o.DurationSeconds < s.FastestGameSeconds {
		s.FastestGameSeconds = o.DurationSeconds
	}
}

func evaluate(s *Statistics, now time.Time) []State {
	var unlocked []State
	for i := range s.Achievements {
		a := &s.Achievements[i]
		if a.Completed {
			continue
		}
		a.Current = metricValue(s, a.Definition)
		if !reached(a.Metric, a.Current, a.Target) {
			continue
		}

		at := now
		a.Completed = true
		a.CompletedAt = &at
		s.TotalAchievementPoints += a.Reward.Points
		if !slices.Contains(s.UnlockedBadges, a.Reward.Badge) {
			s.UnlockedBadges = append(s.UnlockedBadges, a.Reward.Badge)
		}

		done := *a
		completedAt := at
		done.CompletedAt = &completedAt
		unlocked = append(unlocked, done)
	}
	return unlocked
}

// metricValue picks the statistic feeding def. Every Metric must have a case.
func metricValue(s *Statistics, def Definition) float64 {
	switch def.Metric {
	case MetricGames:
		switch def.Period {
		case PeriodWeekly:
			return float64(s.GamesThisWeek)
		case PeriodMonthly:
			return float64(s.GamesThisMonth)
		default:
			return float64(s.TotalGames)
		}
	case MetricScore:
		if def.SingleGame {
			return float64(s.HighScore)
		}
		switch def.Period {
		case PeriodWeekly:
			return float64(s.ScoreThisWeek)
		case PeriodMonthly:
			return float64(s.ScoreThisMonth)
		default:
			return float64(s.TotalScore)
		}
	case MetricStreak:
		if def.Period == PeriodGeneral {
			return float64(s.LongestWinStreak)
		}
		return float64(s.CurrentWinStreak)
	case MetricSpeed:
		return s.FastestGameSeconds
	case MetricAccuracy:
		return float64(s.PerfectGameCount)
	default:
		panic("achievements: unhandled metric " + string(def.Metric))
	}
}

// reached applies the completion rule; lower is better for speed.
func reached(m Metric, current float64, target int) bool {
	if m == MetricSpeed {
		return current > 0 && current <= float64(target)
	}
	return current >= float64(target)
}

// ByPeriod filters stats' achievements to one period.
func ByPeriod(stats Statistics, p Period) []State {
	out := []State{}
	for _, a := range stats.Achievements {
		if a.Period == p {
			out = append(out, a)
		}
	}
	return out
}

func Completed(stats Statistics) []State {
	out := []State{}
	for _, a := range stats.Achievements {
		if a.Completed {
			out = append(out, a)
		}
	}
	return out
}

func ProgressOf(stats Statistics) Progress {
	p := make(Progress, len(Periods))
	for _, period := range Periods {
		p[period] = PeriodProgress{}
	}
	for _, a := range stats.Achievements {
		pp := p[a.Period]
		pp.Total++
		if a.Completed {
			pp.Completed++
		}
		p[a.Period] = pp
	}
	return p
}
