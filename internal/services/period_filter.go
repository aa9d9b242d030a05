package services

import (
	"sort"

	"github.com/alimgiray/orgboard/internal/models"
)

// FilterByPeriod re-ranks a snapshot by the period's contribution field.
// The input is left untouched; ties keep their existing relative order so
// filtering twice by the same period gives the same result.
func FilterByPeriod(entries []models.LeaderboardEntry, period models.Period) []models.LeaderboardEntry {
	filtered := copyEntries(entries)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ContributionsFor(period) > filtered[j].ContributionsFor(period)
	})

	AssignRanks(filtered)
	return filtered
}

// AssignRanks numbers entries 1..N in their current order
func AssignRanks(entries []models.LeaderboardEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func copyEntries(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	copied := make([]models.LeaderboardEntry, len(entries))
	for i, entry := range entries {
		copied[i] = entry
		copied[i].Achievements = append(make([]string, 0, len(entry.Achievements)), entry.Achievements...)
	}
	return copied
}
