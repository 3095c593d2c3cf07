package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// commentColumns is the column list shared by every comment query
const commentColumns = `id, publication_id, user_id, user_name, content, sentiment, toxicity_score, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and returns the full row including the
// generated id and timestamps
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (publication_id, user_id, user_name, content, sentiment, toxicity_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + commentColumns

	row := r.db.QueryRowContext(ctx, query,
		comment.PublicationID, comment.UserID, comment.UserName,
		comment.Content, comment.Sentiment, comment.ToxicityScore,
	)
	return scanComment(row)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetByPublication retrieves a page of comments for one publication,
// newest first
func (r *commentRepo) GetByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE publication_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, query, publicationID, pageSize, offset(page, pageSize))
}

// GetByUser retrieves a page of comments by one submitter, newest first
func (r *commentRepo) GetByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.queryComments(ctx, query, userID, pageSize, offset(page, pageSize))
}

// GetByDateRange retrieves a page of comments created within the inclusive
// bounds, newest first
func (r *commentRepo) GetByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	return r.queryComments(ctx, query, start, end, pageSize, offset(page, pageSize))
}

// GetBySentimentRange retrieves a page of comments with sentiment within
// the inclusive bounds, newest first
func (r *commentRepo) GetBySentimentRange(ctx context.Context, min, max int, page, pageSize int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments
		WHERE sentiment BETWEEN $1 AND $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	return r.queryComments(ctx, query, min, max, pageSize, offset(page, pageSize))
}

// CountByPublication returns the total number of comments for a publication
func (r *commentRepo) CountByPublication(ctx context.Context, publicationID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE publication_id = $1", publicationID,
	).Scan(&count)
	return count, err
}

// Update replaces a comment's content. Nil sentiment or toxicity leaves the
// stored value unchanged (COALESCE); updated_at is always refreshed. Returns
// nil when no row matches.
func (r *commentRepo) Update(ctx context.Context, id int64, content string, sentiment *int, toxicityScore *float64) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1,
			sentiment = COALESCE($2, sentiment),
			toxicity_score = COALESCE($3, toxicity_score),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + commentColumns

	var s sql.NullInt32
	if sentiment != nil {
		s = sql.NullInt32{Int32: int32(*sentiment), Valid: true}
	}
	var tox sql.NullFloat64
	if toxicityScore != nil {
		tox = sql.NullFloat64{Float64: *toxicityScore, Valid: true}
	}

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, content, s, tox, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment, reporting whether a row was removed
func (r *commentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// queryComments runs a multi-row comment query and scans the results
func (r *commentRepo) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID, &comment.PublicationID, &comment.UserID, &comment.UserName,
			&comment.Content, &comment.Sentiment, &comment.ToxicityScore,
			&comment.CreatedAt, &comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// scanComment scans a single-row result into a Comment
func scanComment(row *sql.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.PublicationID, &comment.UserID, &comment.UserName,
		&comment.Content, &comment.Sentiment, &comment.ToxicityScore,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// offset converts a 1-based page number to a row offset
func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
