package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/comment-moderation-api/internal/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[int64]*models.Comment
	NextID      int64
	CreateError error
	QueryError  error
	CreateCalls int
	UpdateCalls int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	now := time.Now()
	stored := *comment
	stored.ID = m.NextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	m.NextID++
	m.Comments[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	comment, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *comment
	return &copied, nil
}

func (m *MockCommentRepository) GetByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.paginate(m.filter(func(c *models.Comment) bool {
		return c.PublicationID == publicationID
	}), page, pageSize), nil
}

func (m *MockCommentRepository) GetByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.paginate(m.filter(func(c *models.Comment) bool {
		return c.UserID == userID
	}), page, pageSize), nil
}

func (m *MockCommentRepository) GetByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.paginate(m.filter(func(c *models.Comment) bool {
		return !c.CreatedAt.Before(start) && !c.CreatedAt.After(end)
	}), page, pageSize), nil
}

func (m *MockCommentRepository) GetBySentimentRange(ctx context.Context, min, max int, page, pageSize int) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.paginate(m.filter(func(c *models.Comment) bool {
		return c.Sentiment >= min && c.Sentiment <= max
	}), page, pageSize), nil
}

func (m *MockCommentRepository) CountByPublication(ctx context.Context, publicationID string) (int, error) {
	if m.QueryError != nil {
		return 0, m.QueryError
	}
	count := 0
	for _, c := range m.Comments {
		if c.PublicationID == publicationID {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, id int64, content string, sentiment *int, toxicityScore *float64) (*models.Comment, error) {
	m.UpdateCalls++
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	comment, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}

	comment.Content = content
	if sentiment != nil {
		comment.Sentiment = *sentiment
	}
	if toxicityScore != nil {
		comment.ToxicityScore = *toxicityScore
	}
	comment.UpdatedAt = time.Now()

	copied := *comment
	return &copied, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if m.QueryError != nil {
		return false, m.QueryError
	}
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	return true, nil
}

func (m *MockCommentRepository) filter(keep func(*models.Comment) bool) []*models.Comment {
	matched := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if keep(c) {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	// Newest first, matching the store ordering contract
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (m *MockCommentRepository) paginate(comments []*models.Comment, page, pageSize int) []*models.Comment {
	offset := (page - 1) * pageSize
	if offset >= len(comments) {
		return []*models.Comment{}
	}
	end := offset + pageSize
	if end > len(comments) {
		end = len(comments)
	}
	return comments[offset:end]
}

// MockPublicationRepository is an in-memory implementation of PublicationRepository
type MockPublicationRepository struct {
	Publications map[string]*models.Publication
	LookupError  error
}

func NewMockPublicationRepository() *MockPublicationRepository {
	return &MockPublicationRepository{
		Publications: make(map[string]*models.Publication),
	}
}

func (m *MockPublicationRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.LookupError != nil {
		return false, m.LookupError
	}
	_, exists := m.Publications[id]
	return exists, nil
}

func (m *MockPublicationRepository) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	return m.Publications[id], nil
}

// Add registers a publication for existence checks
func (m *MockPublicationRepository) Add(id string) {
	m.Publications[id] = &models.Publication{ID: id, CreatedAt: time.Now()}
}
