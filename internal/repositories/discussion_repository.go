package repositories

import (
	"database/sql"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/google/uuid"
)

// DiscussionRepository is the discussion source backing the filter engine
type DiscussionRepository struct {
	db *sql.DB
}

func NewDiscussionRepository(db *sql.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create inserts a discussion, generating an ID when missing
func (r *DiscussionRepository) Create(discussion *models.DiscussionRecord) error {
	if discussion.ID == "" {
		discussion.ID = uuid.New().String()
	}

	query := `
		INSERT INTO discussions (id, title, body, category_name, reactions, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		discussion.ID,
		discussion.Title,
		discussion.Body,
		discussion.CategoryName,
		discussion.Reactions,
		discussion.Comments,
		discussion.CreatedAt.UTC(),
	)

	return err
}

// GetByID retrieves a discussion by ID
func (r *DiscussionRepository) GetByID(id string) (*models.DiscussionRecord, error) {
	query := `
		SELECT id, title, body, category_name, reactions, comments, created_at
		FROM discussions WHERE id = ?
	`

	var discussion models.DiscussionRecord
	err := r.db.QueryRow(query, id).Scan(
		&discussion.ID, &discussion.Title, &discussion.Body, &discussion.CategoryName,
		&discussion.Reactions, &discussion.Comments, &discussion.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &discussion, nil
}

// GetAll returns every discussion, newest first
func (r *DiscussionRepository) GetAll() ([]models.DiscussionRecord, error) {
	query := `
		SELECT id, title, body, category_name, reactions, comments, created_at
		FROM discussions
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discussions := make([]models.DiscussionRecord, 0)
	for rows.Next() {
		var discussion models.DiscussionRecord
		if err := rows.Scan(
			&discussion.ID, &discussion.Title, &discussion.Body, &discussion.CategoryName,
			&discussion.Reactions, &discussion.Comments, &discussion.CreatedAt,
		); err != nil {
			return nil, err
		}
		discussions = append(discussions, discussion)
	}

	return discussions, rows.Err()
}

// Count returns the number of stored discussions
func (r *DiscussionRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM discussions`).Scan(&count)
	return count, err
}

// Delete deletes a discussion by ID
func (r *DiscussionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM discussions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
