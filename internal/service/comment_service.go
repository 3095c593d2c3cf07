package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comment-moderation-api/internal/metrics"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService sequences validation, publication lookup, analysis,
// policy, and persistence for each comment operation
type commentService struct {
	comments     repository.CommentRepository
	publications repository.PublicationRepository
	analyzer     moderation.Analyzer
	log          zerolog.Logger
}

func newCommentService(
	comments repository.CommentRepository,
	publications repository.PublicationRepository,
	analyzer moderation.Analyzer,
	log zerolog.Logger,
) CommentService {
	return &commentService{
		comments:     comments,
		publications: publications,
		analyzer:     analyzer,
		log:          log.With().Str("component", "comment_service").Logger(),
	}
}

// Create runs the full moderation pipeline for a new comment: validate,
// check the publication exists, analyze the trimmed text, apply the
// policy, then persist. Exactly one analysis call and one store write
// happen on the success path.
func (s *commentService) Create(ctx context.Context, content, publicationID string, user models.UserData) (*models.Comment, error) {
	if err := validation.ValidateComment(content, user); err != nil {
		return nil, err
	}

	exists, err := s.publications.Exists(ctx, publicationID)
	if err != nil {
		s.log.Error().Err(err).Str("publication_id", publicationID).Msg("Failed to check publication existence")
		return nil, fmt.Errorf("checking publication existence: %w", ErrPersistenceFailed)
	}
	if !exists {
		return nil, ErrPublicationNotFound
	}

	trimmed := strings.TrimSpace(content)
	analysis := s.analyzer.Analyze(ctx, trimmed)

	decision := moderation.Decide(analysis.Sentiment, analysis.ToxicityScore)
	if !decision.Accepted {
		metrics.ObserveDecision("create", string(decision.Reason))
		s.log.Info().
			Str("publication_id", publicationID).
			Str("user_id", user.ID).
			Str("reason", string(decision.Reason)).
			Int("sentiment", analysis.Sentiment).
			Float64("toxicity_score", analysis.ToxicityScore).
			Msg("Comment rejected by moderation policy")
		return nil, &ModerationError{Reason: decision.Reason}
	}

	stored, err := s.comments.Create(ctx, &models.Comment{
		PublicationID: publicationID,
		UserID:        user.ID,
		UserName:      user.DisplayName,
		Content:       trimmed,
		Sentiment:     analysis.Sentiment,
		ToxicityScore: analysis.ToxicityScore,
	})
	if err != nil {
		s.log.Error().Err(err).Str("publication_id", publicationID).Msg("Failed to save comment")
		return nil, fmt.Errorf("saving comment: %w", ErrPersistenceFailed)
	}
	if stored == nil {
		return nil, ErrPersistenceFailed
	}

	metrics.ObserveDecision("create", "accepted")
	s.log.Info().
		Int64("comment_id", stored.ID).
		Str("publication_id", publicationID).
		Int("sentiment", stored.Sentiment).
		Msg("Comment created")

	return stored, nil
}

// Update replaces a comment's content. The new content is re-validated and
// always re-analyzed; prior scores are never reused. Only the owner may
// update.
func (s *commentService) Update(ctx context.Context, id int64, content, actingUserID string) (*models.Comment, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("comment_id", id).Msg("Failed to load comment")
		return nil, fmt.Errorf("loading comment: %w", ErrPersistenceFailed)
	}
	if existing == nil {
		return nil, ErrCommentNotFound
	}
	if existing.UserID != actingUserID {
		return nil, ErrForbidden
	}

	trimmed := strings.TrimSpace(content)
	analysis := s.analyzer.Analyze(ctx, trimmed)

	decision := moderation.Decide(analysis.Sentiment, analysis.ToxicityScore)
	if !decision.Accepted {
		metrics.ObserveDecision("update", string(decision.Reason))
		s.log.Info().
			Int64("comment_id", id).
			Str("reason", string(decision.Reason)).
			Msg("Comment update rejected by moderation policy")
		return nil, &ModerationError{Reason: decision.Reason}
	}

	updated, err := s.comments.Update(ctx, id, trimmed, &analysis.Sentiment, &analysis.ToxicityScore)
	if err != nil {
		s.log.Error().Err(err).Int64("comment_id", id).Msg("Failed to update comment")
		return nil, fmt.Errorf("updating comment: %w", ErrPersistenceFailed)
	}
	if updated == nil {
		return nil, ErrPersistenceFailed
	}

	metrics.ObserveDecision("update", "accepted")
	s.log.Info().Int64("comment_id", id).Msg("Comment updated")

	return updated, nil
}

// Delete removes a comment; only the owner may delete
func (s *commentService) Delete(ctx context.Context, id int64, actingUserID string) error {
	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("comment_id", id).Msg("Failed to load comment")
		return fmt.Errorf("loading comment: %w", ErrPersistenceFailed)
	}
	if existing == nil {
		return ErrCommentNotFound
	}
	if existing.UserID != actingUserID {
		return ErrForbidden
	}

	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("comment_id", id).Msg("Failed to delete comment")
		return fmt.Errorf("deleting comment: %w", ErrPersistenceFailed)
	}
	if !deleted {
		return ErrCommentNotFound
	}

	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}

// GetByID retrieves a single comment
func (s *commentService) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading comment: %w", ErrPersistenceFailed)
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// ListByPublication returns a page of comments for one publication
func (s *commentService) ListByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error) {
	page, pageSize = normalizePaging(page, pageSize)
	comments, err := s.comments.GetByPublication(ctx, publicationID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", ErrPersistenceFailed)
	}
	return comments, nil
}

// ListByUser returns a page of comments by one submitter
func (s *commentService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error) {
	page, pageSize = normalizePaging(page, pageSize)
	comments, err := s.comments.GetByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", ErrPersistenceFailed)
	}
	return comments, nil
}

// ListByDateRange returns a page of comments created within the inclusive
// bounds
func (s *commentService) ListByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error) {
	page, pageSize = normalizePaging(page, pageSize)
	comments, err := s.comments.GetByDateRange(ctx, start, end, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", ErrPersistenceFailed)
	}
	return comments, nil
}

// ListBySentimentRange returns a page of comments with sentiment within
// the inclusive bounds
func (s *commentService) ListBySentimentRange(ctx context.Context, min, max, page, pageSize int) ([]*models.Comment, error) {
	if min > max {
		min, max = max, min
	}
	page, pageSize = normalizePaging(page, pageSize)
	comments, err := s.comments.GetBySentimentRange(ctx, min, max, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", ErrPersistenceFailed)
	}
	return comments, nil
}

// CountByPublication returns the total comment count for a publication
func (s *commentService) CountByPublication(ctx context.Context, publicationID string) (int, error) {
	count, err := s.comments.CountByPublication(ctx, publicationID)
	if err != nil {
		return 0, fmt.Errorf("counting comments: %w", ErrPersistenceFailed)
	}
	return count, nil
}
