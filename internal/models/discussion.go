package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscussionRecord is a community discussion as supplied by the discussion source
type DiscussionRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CategoryName string    `json:"category_name"`
	Reactions    int       `json:"reactions"`
	Comments     int       `json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDiscussion creates a new DiscussionRecord with a generated UUID
func NewDiscussion(title, body, category string) *DiscussionRecord {
	return &DiscussionRecord{
		ID:           uuid.New().String(),
		Title:        title,
		Body:         body,
		CategoryName: category,
		CreatedAt:    time.Now(),
	}
}

// Validate validates the DiscussionRecord fields
func (d *DiscussionRecord) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if d.Reactions < 0 {
		return &ValidationError{Field: "reactions", Message: "Reactions cannot be negative"}
	}
	if d.Comments < 0 {
		return &ValidationError{Field: "comments", Message: "Comments cannot be negative"}
	}
	return nil
}

// ValidationError reports a field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Discussion tabs
const (
	TabAll        = "all"
	TabTrending   = "trending"
	TabUnanswered = "unanswered"
)

// Discussion sort orders
const (
	SortMostPopular = "most_popular"
	SortLatest      = "latest"
	SortOldest      = "oldest"
)

// CategoryAll disables the category stage
const CategoryAll = "all"

// DiscussionFilter is the full selection driving the discussion filter engine
type DiscussionFilter struct {
	Tab      string `json:"tab"`
	Category string `json:"category"`
	Query    string `json:"query"`
	Sort     string `json:"sort"`
}

// DefaultDiscussionFilter keeps everything, most popular first
func DefaultDiscussionFilter() DiscussionFilter {
	return DiscussionFilter{
		Tab:      TabAll,
		Category: CategoryAll,
		Sort:     SortMostPopular,
	}
}

// Normalized fills blank fields with their defaults
func (f DiscussionFilter) Normalized() DiscussionFilter {
	if f.Tab == "" {
		f.Tab = TabAll
	}
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Sort == "" {
		f.Sort = SortMostPopular
	}
	return f
}
