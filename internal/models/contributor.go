package models

// RepositorySummary is the part of a repository the aggregator needs to pick its fetch set
type RepositorySummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
}

// ContributorRecord accumulates one contributor's totals across repositories
type ContributorRecord struct {
	Login                string `json:"login"`
	AvatarURL            string `json:"avatar_url"`
	ProfileURL           string `json:"profile_url"`
	TotalContributions   int    `json:"total_contributions"`
	RepositoryCount      int    `json:"repository_count"`
	WeeklyContributions  int    `json:"weekly_contributions"`
	MonthlyContributions int    `json:"monthly_contributions"`
}

// Merge folds one repository's contributions into the record
func (c *ContributorRecord) Merge(contributions, weekly, monthly int) {
	c.TotalContributions += contributions
	c.RepositoryCount++
	c.WeeklyContributions += weekly
	c.MonthlyContributions += monthly
}

// LeaderboardEntry is a ranked, scored contributor
type LeaderboardEntry struct {
	ContributorRecord
	Rank         int      `json:"rank"`
	Score        int      `json:"score"`
	Achievements []string `json:"achievements"`
}

// ContributionsFor returns the field a period ranks by
func (e LeaderboardEntry) ContributionsFor(period Period) int {
	switch period {
	case PeriodWeekly:
		return e.WeeklyContributions
	case PeriodMonthly:
		return e.MonthlyContributions
	default:
		return e.TotalContributions
	}
}
