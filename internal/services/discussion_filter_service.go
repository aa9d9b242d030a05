package services

import (
	"sort"
	"strings"

	"github.com/alimgiray/orgboard/internal/models"
)

// TrendingReactionThreshold is the reaction count a discussion must exceed to trend
const TrendingReactionThreshold = 5

// CategoryRule matches discussion category names for one selectable category
type CategoryRule struct {
	Category string
	Synonyms []string
}

// Matches reports whether a lower-cased category name contains any synonym
func (r CategoryRule) Matches(categoryName string) bool {
	for _, synonym := range r.Synonyms {
		if strings.Contains(categoryName, synonym) {
			return true
		}
	}
	return false
}

// CategoryRules are checked top to bottom before falling back to a plain
// substring match on the selected category.
var CategoryRules = []CategoryRule{
	{Category: "q-a", Synonyms: []string{"q&a", "question"}},
	{Category: "show-and-tell", Synonyms: []string{"show"}},
	{Category: "announcements", Synonyms: []string{"announcement"}},
	{Category: "ideas", Synonyms: []string{"idea"}},
	{Category: "general", Synonyms: []string{"general", "discussion"}},
}

// FilterDiscussions runs the tab, category, search and sort stages in order.
// It is a pure function of its arguments and never modifies the input.
func FilterDiscussions(discussions []models.DiscussionRecord, filter models.DiscussionFilter) []models.DiscussionRecord {
	filter = filter.Normalized()

	result := filterByTab(discussions, filter.Tab)
	result = filterByCategory(result, filter.Category)
	result = filterByQuery(result, filter.Query)
	sortDiscussions(result, filter.Sort)
	return result
}

func filterByTab(discussions []models.DiscussionRecord, tab string) []models.DiscussionRecord {
	switch tab {
	case models.TabTrending:
		return keep(discussions, func(d models.DiscussionRecord) bool {
			return d.Reactions > TrendingReactionThreshold
		})
	case models.TabUnanswered:
		return keep(discussions, func(d models.DiscussionRecord) bool {
			return d.Comments == 0
		})
	default:
		return keep(discussions, func(models.DiscussionRecord) bool { return true })
	}
}

func filterByCategory(discussions []models.DiscussionRecord, category string) []models.DiscussionRecord {
	selected := strings.ToLower(strings.TrimSpace(category))
	if selected == "" || selected == models.CategoryAll {
		return discussions
	}
	return keep(discussions, func(d models.DiscussionRecord) bool {
		return MatchesCategory(d.CategoryName, selected)
	})
}

// MatchesCategory applies the rule for the selected category, then the substring fallback
func MatchesCategory(categoryName, selected string) bool {
	name := strings.ToLower(categoryName)
	selected = strings.ToLower(selected)

	for _, rule := range CategoryRules {
		if rule.Category == selected && rule.Matches(name) {
			return true
		}
	}
	return strings.Contains(name, selected)
}

func filterByQuery(discussions []models.DiscussionRecord, query string) []models.DiscussionRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return discussions
	}
	return keep(discussions, func(d models.DiscussionRecord) bool {
		return strings.Contains(strings.ToLower(d.Title), query) ||
			strings.Contains(strings.ToLower(d.Body), query)
	})
}

func sortDiscussions(discussions []models.DiscussionRecord, order string) {
	switch order {
	case models.SortLatest:
		sort.SliceStable(discussions, func(i, j int) bool {
			return discussions[i].CreatedAt.After(discussions[j].CreatedAt)
		})
	case models.SortOldest:
		sort.SliceStable(discussions, func(i, j int) bool {
			return discussions[i].CreatedAt.Before(discussions[j].CreatedAt)
		})
	default:
		sort.SliceStable(discussions, func(i, j int) bool {
			return discussions[i].Reactions > discussions[j].Reactions
		})
	}
}

// keep copies the matching records into a new slice
func keep(discussions []models.DiscussionRecord, predicate func(models.DiscussionRecord) bool) []models.DiscussionRecord {
	kept := make([]models.DiscussionRecord, 0, len(discussions))
	for _, d := range discussions {
		if predicate(d) {
			kept = append(kept, d)
		}
	}
	return kept
}
