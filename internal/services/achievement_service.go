package services

// MaxAchievements caps how many labels one entry carries
const MaxAchievements = 3

// ScoreMultiplier converts contributions into leaderboard points
const ScoreMultiplier = 10

type achievementTier struct {
	threshold int
	label     string
}

type achievementLadder struct {
	value func(score, contributions int) int
	tiers []achievementTier // highest threshold first
}

// achievementLadders are evaluated independently and in this order. Each
// ladder awards only its highest reached tier.
var achievementLadders = []achievementLadder{
	{
		value: func(score, _ int) int { return score },
		tiers: []achievementTier{
			{7000, "Legend"},
			{5000, "Elite Contributor"},
			{3000, "Master Contributor"},
			{1000, "Advanced Contributor"},
			{500, "Active Contributor"},
			{100, "Rising Star"},
		},
	},
	{
		value: func(_, contributions int) int { return contributions },
		tiers: []achievementTier{
			{150, "PR Master"},
			{100, "Century Club"},
			{50, "Half Century"},
			{25, "Quick Contributor"},
			{10, "Consistent"},
		},
	},
}

// Score returns the leaderboard points for a contribution total
func Score(totalContributions int) int {
	return totalContributions * ScoreMultiplier
}

// Achievements returns the earned labels in ladder order, at most MaxAchievements
func Achievements(score, totalContributions int) []string {
	achievements := make([]string, 0, MaxAchievements)
	for _, ladder := range achievementLadders {
		value := ladder.value(score, totalContributions)
		for _, tier := range ladder.tiers {
			if value >= tier.threshold {
				achievements = append(achievements, tier.label)
				break
			}
		}
	}
	if len(achievements) > MaxAchievements {
		achievements = achievements[:MaxAchievements]
	}
	return achievements
}
