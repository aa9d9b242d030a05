package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
)

type CommunityStatsRepository struct {
	db *sql.DB
}

func NewCommunityStatsRepository(db *sql.DB) *CommunityStatsRepository {
	return &CommunityStatsRepository{db: db}
}

// GetByOrg retrieves the stored counts for an organization
func (r *CommunityStatsRepository) GetByOrg(org string) (*models.CommunityStats, error) {
	query := `
		SELECT org, total_stars, total_forks, total_repos, total_contributors, updated_at
		FROM community_stats
		WHERE org = ?
	`

	stats := &models.CommunityStats{}
	err := r.db.QueryRow(query, org).Scan(
		&stats.Org,
		&stats.TotalStars,
		&stats.TotalForks,
		&stats.TotalRepos,
		&stats.TotalContributors,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Upsert inserts or replaces the counts for an organization
func (r *CommunityStatsRepository) Upsert(stats *models.CommunityStats) error {
	if stats.UpdatedAt.IsZero() {
		stats.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO community_stats (org, total_stars, total_forks, total_repos, total_contributors, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(org) DO UPDATE SET
			total_stars = excluded.total_stars,
			total_forks = excluded.total_forks,
			total_repos = excluded.total_repos,
			total_contributors = excluded.total_contributors,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		stats.Org,
		stats.TotalStars,
		stats.TotalForks,
		stats.TotalRepos,
		stats.TotalContributors,
		stats.UpdatedAt.UTC(),
	)

	return err
}
