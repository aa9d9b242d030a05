package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/repositories"
)

// ErrDiscussionNotFound is returned for an unknown discussion ID
var ErrDiscussionNotFound = errors.New("discussion not found")

// DiscussionList is one filtered view of the discussion board. Total counts
// every stored discussion, Count only the ones that passed the filter.
type DiscussionList struct {
	Discussions []models.DiscussionRecord `json:"discussions"`
	Count       int                       `json:"count"`
	Total       int                       `json:"total"`
	Filter      models.DiscussionFilter   `json:"filter"`
}

type DiscussionService struct {
	discussionRepo *repositories.DiscussionRepository
}

func NewDiscussionService(discussionRepo *repositories.DiscussionRepository) *DiscussionService {
	return &DiscussionService{
		discussionRepo: discussionRepo,
	}
}

// List loads every discussion and runs it through the filter engine
func (s *DiscussionService) List(ctx context.Context, filter models.DiscussionFilter) (*DiscussionList, error) {
	all, err := s.discussionRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load discussions: %w", err)
	}

	total, err := s.discussionRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count discussions: %w", err)
	}

	filter = filter.Normalized()
	filtered := FilterDiscussions(all, filter)

	return &DiscussionList{
		Discussions: filtered,
		Count:       len(filtered),
		Total:       total,
		Filter:      filter,
	}, nil
}

// Create validates and stores a new discussion
func (s *DiscussionService) Create(ctx context.Context, discussion *models.DiscussionRecord) (*models.DiscussionRecord, error) {
	discussion.Title = strings.TrimSpace(discussion.Title)
	if err := discussion.Validate(); err != nil {
		return nil, err
	}
	if discussion.CreatedAt.IsZero() {
		discussion.CreatedAt = time.Now()
	}

	if err := s.discussionRepo.Create(discussion); err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}
	return discussion, nil
}

// Get returns one discussion
func (s *DiscussionService) Get(ctx context.Context, id string) (*models.DiscussionRecord, error) {
	discussion, err := s.discussionRepo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDiscussionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load discussion %s: %w", id, err)
	}
	return discussion, nil
}

// Delete removes one discussion
func (s *DiscussionService) Delete(ctx context.Context, id string) error {
	err := s.discussionRepo.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDiscussionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete discussion %s: %w", id, err)
	}
	return nil
}
