package service

import (
	"context"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/rs/zerolog"
)

// Pagination defaults and bounds applied at the service boundary
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CommentService defines the comment moderation and persistence pipeline
type CommentService interface {
	Create(ctx context.Context, content, publicationID string, user models.UserData) (*models.Comment, error)
	Update(ctx context.Context, id int64, content, actingUserID string) (*models.Comment, error)
	Delete(ctx context.Context, id int64, actingUserID string) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error)
	ListByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error)
	ListBySentimentRange(ctx context.Context, min, max, page, pageSize int) ([]*models.Comment, error)
	CountByPublication(ctx context.Context, publicationID string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, analyzer moderation.Analyzer, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos.Comment, repos.Publication, analyzer, log),
	}
}

// normalizePaging applies the pagination defaults and caps: page is
// 1-based, pageSize stays within 1-100
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
