package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/mocks"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/service"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/rs/zerolog"
)

var testUser = models.UserData{ID: "user-1", DisplayName: "Alice"}

func setupService(analysis models.AnalysisResult) (service.CommentService, *mocks.MockCommentRepository, *mocks.MockPublicationRepository, *mocks.MockAnalyzer) {
	commentRepo := mocks.NewMockCommentRepository()
	pubRepo := mocks.NewMockPublicationRepository()
	analyzer := mocks.NewMockAnalyzer(analysis)

	repos := &repository.Repositories{Comment: commentRepo, Publication: pubRepo}
	services := service.NewServices(repos, analyzer, zerolog.Nop())

	return services.Comment, commentRepo, pubRepo, analyzer
}

func TestCreate_AcceptedNeutralComment(t *testing.T) {
	// Scenario: 2-char content, publication exists, analyzer returns
	// neutral with 0.5 confidence
	svc, commentRepo, pubRepo, analyzer := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	comment, err := svc.Create(context.Background(), "ok", "pub-1", testUser)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if comment.ID == 0 {
		t.Error("Expected store-assigned id")
	}
	if comment.Sentiment != 3 {
		t.Errorf("Expected sentiment 3, got %d", comment.Sentiment)
	}
	if comment.ToxicityScore != 0 {
		t.Errorf("Expected toxicity 0, got %v", comment.ToxicityScore)
	}
	if comment.UserName != "Alice" {
		t.Errorf("Expected captured display name, got %q", comment.UserName)
	}
	if analyzer.Calls != 1 {
		t.Errorf("Expected exactly one analysis call, got %d", analyzer.Calls)
	}
	if commentRepo.CreateCalls != 1 {
		t.Errorf("Expected exactly one store write, got %d", commentRepo.CreateCalls)
	}
}

func TestCreate_TrimsContentBeforeAnalysisAndStorage(t *testing.T) {
	svc, commentRepo, pubRepo, analyzer := setupService(models.AnalysisResult{Sentiment: 4, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	comment, err := svc.Create(context.Background(), "  nice post  ", "pub-1", testUser)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if comment.Content != "nice post" {
		t.Errorf("Expected trimmed content, got %q", comment.Content)
	}
	if analyzer.Texts[0] != "nice post" {
		t.Errorf("Expected analyzer to receive trimmed content, got %q", analyzer.Texts[0])
	}
	stored := commentRepo.Comments[comment.ID]
	if stored.Content != "nice post" {
		t.Errorf("Expected trimmed content stored, got %q", stored.Content)
	}
}

func TestCreate_ValidationFailsBeforeAnyExternalCall(t *testing.T) {
	svc, commentRepo, pubRepo, analyzer := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	_, err := svc.Create(context.Background(), strings.Repeat("a", 1001), "pub-1", testUser)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected *validation.Error, got %T", err)
	}
	if validationErr.Kind != validation.ContentTooLong {
		t.Errorf("Expected kind %s, got %s", validation.ContentTooLong, validationErr.Kind)
	}
	if analyzer.Calls != 0 {
		t.Errorf("Expected no analysis call, got %d", analyzer.Calls)
	}
	if commentRepo.CreateCalls != 0 {
		t.Errorf("Expected no store write, got %d", commentRepo.CreateCalls)
	}
}

func TestCreate_IncompleteIdentity(t *testing.T) {
	svc, _, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	_, err := svc.Create(context.Background(), "hello there", "pub-1", models.UserData{ID: "user-1"})
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected *validation.Error, got %v", err)
	}
	if validationErr.Kind != validation.IdentityIncomplete {
		t.Errorf("Expected kind %s, got %s", validation.IdentityIncomplete, validationErr.Kind)
	}
}

func TestCreate_PublicationNotFound(t *testing.T) {
	svc, _, _, analyzer := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})

	_, err := svc.Create(context.Background(), "hello there", "missing-pub", testUser)
	if !errors.Is(err, service.ErrPublicationNotFound) {
		t.Fatalf("Expected ErrPublicationNotFound, got %v", err)
	}
	if analyzer.Calls != 0 {
		t.Errorf("Expected no analysis call for a missing publication, got %d", analyzer.Calls)
	}
}

func TestCreate_RejectedToxic(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 2, ToxicityScore: 0.9})
	pubRepo.Add("pub-1")

	_, err := svc.Create(context.Background(), "awful garbage", "pub-1", testUser)

	var moderationErr *service.ModerationError
	if !errors.As(err, &moderationErr) {
		t.Fatalf("Expected *service.ModerationError, got %v", err)
	}
	if moderationErr.Reason != moderation.ReasonToxic {
		t.Errorf("Expected reason %s, got %s", moderation.ReasonToxic, moderationErr.Reason)
	}
	if commentRepo.CreateCalls != 0 {
		t.Error("Rejected comment must not be persisted")
	}
}

func TestCreate_RejectedTooNegative(t *testing.T) {
	svc, _, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 1, ToxicityScore: 0.1})
	pubRepo.Add("pub-1")

	_, err := svc.Create(context.Background(), "deeply disappointing", "pub-1", testUser)

	var moderationErr *service.ModerationError
	if !errors.As(err, &moderationErr) {
		t.Fatalf("Expected *service.ModerationError, got %v", err)
	}
	if moderationErr.Reason != moderation.ReasonTooNegative {
		t.Errorf("Expected reason %s, got %s", moderation.ReasonTooNegative, moderationErr.Reason)
	}
}

func TestCreate_ToxicAndNegativeReportedAsToxic(t *testing.T) {
	svc, _, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 1, ToxicityScore: 0.95})
	pubRepo.Add("pub-1")

	_, err := svc.Create(context.Background(), "truly vile", "pub-1", testUser)

	var moderationErr *service.ModerationError
	if !errors.As(err, &moderationErr) {
		t.Fatalf("Expected *service.ModerationError, got %v", err)
	}
	if moderationErr.Reason != moderation.ReasonToxic {
		t.Errorf("Toxicity must be checked before sentiment, got reason %s", moderationErr.Reason)
	}
}

func TestCreate_AnalyzerFallbackFailsOpen(t *testing.T) {
	// An unavailable analyzer resolves to the neutral fallback, which the
	// policy accepts. Unreachable analysis never blocks comment creation.
	svc, commentRepo, pubRepo, _ := setupService(moderation.FallbackResult())
	pubRepo.Add("pub-1")

	comment, err := svc.Create(context.Background(), "whatever text", "pub-1", testUser)
	if err != nil {
		t.Fatalf("Expected fail-open acceptance, got %v", err)
	}
	if comment.Sentiment != 3 || comment.ToxicityScore != 0 {
		t.Errorf("Expected fallback scores persisted, got sentiment=%d toxicity=%v",
			comment.Sentiment, comment.ToxicityScore)
	}
	if commentRepo.CreateCalls != 1 {
		t.Errorf("Expected one store write, got %d", commentRepo.CreateCalls)
	}
}

func TestCreate_PersistenceFailure(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")
	commentRepo.CreateError = errors.New("connection reset")

	_, err := svc.Create(context.Background(), "hello there", "pub-1", testUser)
	if !errors.Is(err, service.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed, got %v", err)
	}
}

func TestCreate_PublicationLookupFailure(t *testing.T) {
	svc, _, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.LookupError = errors.New("connection reset")

	_, err := svc.Create(context.Background(), "hello there", "pub-1", testUser)
	if !errors.Is(err, service.ErrPersistenceFailed) {
		t.Fatalf("Expected ErrPersistenceFailed, got %v", err)
	}
}

func TestUpdate_ReanalyzesContent(t *testing.T) {
	svc, commentRepo, pubRepo, analyzer := setupService(models.AnalysisResult{Sentiment: 4, ToxicityScore: 0.2})
	pubRepo.Add("pub-1")

	created, err := svc.Create(context.Background(), "original text", "pub-1", testUser)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before := commentRepo.Comments[created.ID].UpdatedAt
	time.Sleep(5 * time.Millisecond)

	analyzer.Result = models.AnalysisResult{Sentiment: 2, ToxicityScore: 0.4}
	updated, err := svc.Update(context.Background(), created.ID, "revised text", testUser.ID)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Content != "revised text" {
		t.Errorf("Expected updated content, got %q", updated.Content)
	}
	if updated.Sentiment != 2 || updated.ToxicityScore != 0.4 {
		t.Errorf("Expected re-analyzed scores, got sentiment=%d toxicity=%v",
			updated.Sentiment, updated.ToxicityScore)
	}
	if analyzer.Calls != 2 {
		t.Errorf("Expected analysis on every content edit, got %d calls", analyzer.Calls)
	}
	if !updated.UpdatedAt.After(before) {
		t.Error("Expected updated_at to increase")
	}
}

func TestUpdate_OwnershipMismatch(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	created, _ := svc.Create(context.Background(), "my comment", "pub-1", testUser)

	_, err := svc.Update(context.Background(), created.ID, "hijacked", "someone-else")
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}

	stored := commentRepo.Comments[created.ID]
	if stored.Content != "my comment" {
		t.Error("Forbidden update must leave the row intact")
	}
}

func TestUpdate_CommentNotFound(t *testing.T) {
	svc, _, _, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})

	_, err := svc.Update(context.Background(), 9999, "valid content", testUser.ID)
	if !errors.Is(err, service.ErrCommentNotFound) {
		t.Fatalf("Expected ErrCommentNotFound, got %v", err)
	}
}

func TestUpdate_RejectedContentNotStored(t *testing.T) {
	svc, commentRepo, pubRepo, analyzer := setupService(models.AnalysisResult{Sentiment: 4, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	created, _ := svc.Create(context.Background(), "pleasant words", "pub-1", testUser)

	analyzer.Result = models.AnalysisResult{Sentiment: 2, ToxicityScore: 0.95}
	_, err := svc.Update(context.Background(), created.ID, "vile replacement", testUser.ID)

	var moderationErr *service.ModerationError
	if !errors.As(err, &moderationErr) {
		t.Fatalf("Expected *service.ModerationError, got %v", err)
	}
	if commentRepo.Comments[created.ID].Content != "pleasant words" {
		t.Error("Rejected update must leave the stored content unchanged")
	}
}

func TestDelete_OwnerRemovesComment(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	created, _ := svc.Create(context.Background(), "to be removed", "pub-1", testUser)

	if err := svc.Delete(context.Background(), created.ID, testUser.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := commentRepo.Comments[created.ID]; ok {
		t.Error("Expected row removed")
	}
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	created, _ := svc.Create(context.Background(), "keep me", "pub-1", testUser)

	err := svc.Delete(context.Background(), created.ID, "intruder")
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	if _, ok := commentRepo.Comments[created.ID]; !ok {
		t.Error("Forbidden delete must leave the row intact")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})

	err := svc.Delete(context.Background(), 404, testUser.ID)
	if !errors.Is(err, service.ErrCommentNotFound) {
		t.Fatalf("Expected ErrCommentNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})

	_, err := svc.GetByID(context.Background(), 42)
	if !errors.Is(err, service.ErrCommentNotFound) {
		t.Fatalf("Expected ErrCommentNotFound, got %v", err)
	}
}

func TestListByPublication_PagingNormalized(t *testing.T) {
	svc, commentRepo, pubRepo, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})
	pubRepo.Add("pub-1")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		commentRepo.Comments[int64(i+1)] = &models.Comment{
			ID:            int64(i + 1),
			PublicationID: "pub-1",
			UserID:        "user-1",
			UserName:      "Alice",
			Content:       "comment",
			Sentiment:     3,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
	}
	commentRepo.NextID = 26

	// Zero page and page size fall back to defaults
	comments, err := svc.ListByPublication(context.Background(), "pub-1", 0, 0)
	if err != nil {
		t.Fatalf("ListByPublication failed: %v", err)
	}
	if len(comments) != 10 {
		t.Errorf("Expected default page size 10, got %d", len(comments))
	}

	// Oversized page size is capped at 100
	comments, _ = svc.ListByPublication(context.Background(), "pub-1", 1, 500)
	if len(comments) != 25 {
		t.Errorf("Expected all 25 comments under the cap, got %d", len(comments))
	}
}

func TestListBySentimentRange_SwapsInvertedBounds(t *testing.T) {
	svc, commentRepo, _, _ := setupService(models.AnalysisResult{Sentiment: 3, ToxicityScore: 0})

	commentRepo.Comments[1] = &models.Comment{ID: 1, PublicationID: "pub-1", Sentiment: 4, CreatedAt: time.Now()}

	comments, err := svc.ListBySentimentRange(context.Background(), 5, 3, 1, 10)
	if err != nil {
		t.Fatalf("ListBySentimentRange failed: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("Expected inverted bounds to be swapped, got %d results", len(comments))
	}
}
