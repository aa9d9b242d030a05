package services

import (
	"github.com/alimgiray/orgboard/internal/models"
)

// DemoFallbackMessage is shown whenever live data could not be produced
const DemoFallbackMessage = "Unable to load live contributor data; showing demo data."

var demoContributors = []models.ContributorRecord{
	{
		Login:                "octo-maintainer",
		AvatarURL:            "https://avatars.githubusercontent.com/u/583231?v=4",
		ProfileURL:           "https://github.com/octo-maintainer",
		TotalContributions:   742,
		RepositoryCount:      8,
		WeeklyContributions:  121,
		MonthlyContributions: 318,
	},
	{
		Login:                "docs-wrangler",
		AvatarURL:            "https://avatars.githubusercontent.com/u/1024025?v=4",
		ProfileURL:           "https://github.com/docs-wrangler",
		TotalContributions:   388,
		RepositoryCount:      5,
		WeeklyContributions:  97,
		MonthlyContributions: 160,
	},
	{
		Login:                "ci-gardener",
		AvatarURL:            "https://avatars.githubusercontent.com/u/2048101?v=4",
		ProfileURL:           "https://github.com/ci-gardener",
		TotalContributions:   164,
		RepositoryCount:      6,
		WeeklyContributions:  22,
		MonthlyContributions: 71,
	},
	{
		Login:                "first-timer",
		AvatarURL:            "https://avatars.githubusercontent.com/u/4096512?v=4",
		ProfileURL:           "https://github.com/first-timer",
		TotalContributions:   57,
		RepositoryCount:      2,
		WeeklyContributions:  14,
		MonthlyContributions: 30,
	},
	{
		Login:                "weekend-hacker",
		AvatarURL:            "https://avatars.githubusercontent.com/u/8192000?v=4",
		ProfileURL:           "https://github.com/weekend-hacker",
		TotalContributions:   18,
		RepositoryCount:      1,
		WeeklyContributions:  5,
		MonthlyContributions: 9,
	},
}

// DemoLeaderboard returns a fresh copy of the static fallback leaderboard,
// scored and ranked exactly like live data.
func DemoLeaderboard() []models.LeaderboardEntry {
	return buildEntries(demoContributors)
}
