package repository

import (
	"context"
	"time"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// CommentRepository defines the interface for comment data operations.
// All list operations are read-only, ordered newest first, and paginated
// with a 1-based page number (offset = (page-1) * pageSize).
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error)
	GetByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error)
	GetByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error)
	GetBySentimentRange(ctx context.Context, min, max int, page, pageSize int) ([]*models.Comment, error)
	CountByPublication(ctx context.Context, publicationID string) (int, error)
	Update(ctx context.Context, id int64, content string, sentiment *int, toxicityScore *float64) (*models.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PublicationRepository defines the existence lookup the comment pipeline
// performs before accepting a comment. The publication lifecycle itself is
// owned by another service.
type PublicationRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Publication, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment     CommentRepository
	Publication PublicationRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment:     NewCommentRepo(db),
		Publication: NewPublicationRepo(db),
	}
}
