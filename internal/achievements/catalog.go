package achievements

type ID string

const (
	WeeklyGames5        ID = "weekly_games_5"
	WeeklyGames15       ID = "weekly_games_15"
	WeeklyScore1000     ID = "weekly_score_1000"
	WeeklyStreak5       ID = "weekly_streak_5"
	MonthlyGames30      ID = "monthly_games_30"
	MonthlyGames100     ID = "monthly_games_100"
	MonthlyScore10000   ID = "monthly_score_10000"
	MonthlyPerfect10    ID = "monthly_perfect_10"
	GeneralGames100     ID = "general_games_100"
	GeneralGames500     ID = "general_games_500"
	GeneralGames1000    ID = "general_games_1000"
	GeneralHighScore500 ID = "general_high_score_500"
	GeneralHighScore1k  ID = "general_high_score_1000"
	GeneralStreak10     ID = "general_streak_10"
	GeneralStreak25     ID = "general_streak_25"
	GeneralPerfect50    ID = "general_perfect_50"
	GeneralSpeed30      ID = "general_speed_30"
	GeneralSpeed20      ID = "general_speed_20"
)

// Catalog lists every achievement in display order.
var Catalog = []Definition{
	{ID: WeeklyGames5, Title: "Weekly Player", Description: "Play 5 games this week", Icon: "🎮", Period: PeriodWeekly, Target: 5, Metric: MetricGames, Reward: Reward{Points: 50, Badge: "🎮"}},
	{ID: WeeklyGames15, Title: "Weekly Champion", Description: "Play 15 games this week", Icon: "🏆", Period: PeriodWeekly, Target: 15, Metric: MetricGames, Reward: Reward{Points: 150, Badge: "🏆"}},
	{ID: WeeklyScore1000, Title: "Weekly Score Hunter", Description: "Earn 1000 points in total this week", Icon: "⭐", Period: PeriodWeekly, Target: 1000, Metric: MetricScore, Reward: Reward{Points: 100, Badge: "⭐"}},
	{ID: WeeklyStreak5, Title: "Weekly Streak", Description: "Win 5 games in a row this week", Icon: "🔥", Period: PeriodWeekly, Target: 5, Metric: MetricStreak, Reward: Reward{Points: 200, Badge: "🔥"}},

	{ID: MonthlyGames30, Title: "Monthly Regular", Description: "Play 30 games this month", Icon: "📅", Period: PeriodMonthly, Target: 30, Metric: MetricGames, Reward: Reward{Points: 300, Badge: "📅"}},
	{ID: MonthlyGames100, Title: "Monthly Addict", Description: "Play 100 games this month", Icon: "🎯", Period: PeriodMonthly, Target: 100, Metric: MetricGames, Reward: Reward{Points: 1000, Badge: "🎯"}},
	{ID: MonthlyScore10000, Title: "Monthly Score King", Description: "Earn 10,000 points in total this month", Icon: "👑", Period: PeriodMonthly, Target: 10000, Metric: MetricScore, Reward: Reward{Points: 500, Badge: "👑"}},
	{ID: MonthlyPerfect10, Title: "Monthly Perfection", Description: "Play 10 perfect games this month", Icon: "💎", Period: PeriodMonthly, Target: 10, Metric: MetricAccuracy, Reward: Reward{Points: 800, Badge: "💎"}},

	{ID: GeneralGames100, Title: "Hundred Club", Description: "Play 100 games in total", Icon: "💯", Period: PeriodGeneral, Target: 100, Metric: MetricGames, Reward: Reward{Points: 500, Badge: "💯"}},
	{ID: GeneralGames500, Title: "Five Hundred Legend", Description: "Play 500 games in total", Icon: "🌟", Period: PeriodGeneral, Target: 500, Metric: MetricGames, Reward: Reward{Points: 2000, Badge: "🌟"}},
	{ID: GeneralGames1000, Title: "Thousand Legend", Description: "Play 1000 games in total", Icon: "🚀", Period: PeriodGeneral, Target: 1000, Metric: MetricGames, Reward: Reward{Points: 5000, Badge: "🚀"}},
	{ID: GeneralHighScore500, Title: "Five Hundred Record", Description: "Score 500+ points", Icon: "🎖️", Period: PeriodGeneral, Target: 500, Metric: MetricScore, SingleGame: true, Reward: Reward{Points: 300, Badge: "🎖️"}},
	{ID: GeneralHighScore1k, Title: "Thousand Record", Description: "Score 1000+ points", Icon: "🏅", Period: PeriodGeneral, Target: 1000, Metric: MetricScore, SingleGame: true, Reward: Reward{Points: 1000, Badge: "🏅"}},
	{ID: GeneralStreak10, Title: "Streak of Ten", Description: "Win 10 games in a row", Icon: "🔥", Period: PeriodGeneral, Target: 10, Metric: MetricStreak, Reward: Reward{Points: 800, Badge: "🔥"}},
	{ID: GeneralStreak25, Title: "Streak of Twenty-Five", Description: "Win 25 games in a row", Icon: "⚡", Period: PeriodGeneral, Target: 25, Metric: MetricStreak, Reward: Reward{Points: 2000, Badge: "⚡"}},
	{ID: GeneralPerfect50, Title: "Master of Perfection", Description: "Play 50 perfect games", Icon: "✨", Period: PeriodGeneral, Target: 50, Metric: MetricAccuracy, Reward: Reward{Points: 1500, Badge: "✨"}},
	{ID: GeneralSpeed30, Title: "Speed Demon", Description: "Finish a game in 30 seconds", Icon: "💨", Period: PeriodGeneral, Target: 30, Metric: MetricSpeed, Reward: Reward{Points: 600, Badge: "💨"}},
	{ID: GeneralSpeed20, Title: "Speed of Light", Description: "Finish a game in 20 seconds", Icon: "⚡", Period: PeriodGeneral, Target: 20, Metric: MetricSpeed, Reward: Reward{Points: 1200, Badge: "⚡"}},
}

var catalogByID = func() map[ID]Definition {
	m := make(map[ID]Definition, len(Catalog))
	for _, d := range Catalog {
		m[d.ID] = d
	}
	return m
}()

// Lookup returns the catalog definition for id.
func Lookup(id ID) (Definition, bool) {
	d, ok := catalogByID[id]
	return d, ok
}
