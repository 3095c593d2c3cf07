package mocks

import (
	"context"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/comment-moderation-api/internal/validation"
)

// MockAnalyzer is a scripted implementation of moderation.Analyzer
type MockAnalyzer struct {
	Result models.AnalysisResult
	Calls  int
	Texts  []string
}

func NewMockAnalyzer(result models.AnalysisResult) *MockAnalyzer {
	return &MockAnalyzer{Result: result}
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) models.AnalysisResult {
	m.Calls++
	m.Texts = append(m.Texts, text)
	return m.Result
}

// MockCommentService is a scripted implementation of service.CommentService
// for handler tests
type MockCommentService struct {
	Comments  map[int64]*models.Comment
	NextID    int64
	Err       error
	Count     int
	LastPage  int
	LastSize  int
	Deleted   []int64
	CreatedBy []string
}

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
	}
}

func (m *MockCommentService) Create(ctx context.Context, content, publicationID string, user models.UserData) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := validation.ValidateComment(content, user); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:            m.NextID,
		PublicationID: publicationID,
		UserID:        user.ID,
		UserName:      user.DisplayName,
		Content:       content,
		Sentiment:     3,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.NextID++
	m.Comments[comment.ID] = comment
	m.CreatedBy = append(m.CreatedBy, user.ID)
	return comment, nil
}

func (m *MockCommentService) Update(ctx context.Context, id int64, content, actingUserID string) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	comment, ok := m.Comments[id]
	if !ok {
		return nil, service.ErrCommentNotFound
	}
	if comment.UserID != actingUserID {
		return nil, service.ErrForbidden
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return comment, nil
}

func (m *MockCommentService) Delete(ctx context.Context, id int64, actingUserID string) error {
	if m.Err != nil {
		return m.Err
	}
	comment, ok := m.Comments[id]
	if !ok {
		return service.ErrCommentNotFound
	}
	if comment.UserID != actingUserID {
		return service.ErrForbidden
	}
	delete(m.Comments, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockCommentService) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	comment, ok := m.Comments[id]
	if !ok {
		return nil, service.ErrCommentNotFound
	}
	return comment, nil
}

func (m *MockCommentService) ListByPublication(ctx context.Context, publicationID string, page, pageSize int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastPage, m.LastSize = page, pageSize
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PublicationID == publicationID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCommentService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastPage, m.LastSize = page, pageSize
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCommentService) ListByDateRange(ctx context.Context, start, end time.Time, page, pageSize int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastPage, m.LastSize = page, pageSize
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if !c.CreatedAt.Before(start) && !c.CreatedAt.After(end) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCommentService) ListBySentimentRange(ctx context.Context, min, max, page, pageSize int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.LastPage, m.LastSize = page, pageSize
	result := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.Sentiment >= min && c.Sentiment <= max {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockCommentService) CountByPublication(ctx context.Context, publicationID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if m.Count > 0 {
		return m.Count, nil
	}
	count := 0
	for _, c := range m.Comments {
		if c.PublicationID == publicationID {
			count++
		}
	}
	return count, nil
}
