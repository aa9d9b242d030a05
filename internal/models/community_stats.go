package models

import "time"

// CommunityStats are the pre-aggregated org-wide counts shown beside the leaderboard
type CommunityStats struct {
	Org               string    `json:"org"`
	TotalStars        int       `json:"total_stars"`
	TotalForks        int       `json:"total_forks"`
	TotalRepos        int       `json:"total_repos"`
	TotalContributors int       `json:"total_contributors"`
	UpdatedAt         time.Time `json:"updated_at"`
}
