package repository

import (
	"context"
	"database/sql"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// publicationRepo is the concrete implementation of PublicationRepository
type publicationRepo struct {
	db *database.DB
}

// NewPublicationRepo creates a new publication repository
func NewPublicationRepo(db *database.DB) PublicationRepository {
	return &publicationRepo{db: db}
}

// Exists checks if a publication with the given ID exists
func (r *publicationRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM publications WHERE id = $1)", id,
	).Scan(&exists)
	return exists, err
}

// GetByID retrieves a publication by ID
func (r *publicationRepo) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	query := `SELECT id, user_id, title, created_at FROM publications WHERE id = $1`

	var pub models.Publication
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&pub.ID, &pub.UserID, &pub.Title, &pub.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &pub, nil
}
