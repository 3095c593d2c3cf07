package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// commentRequest is the POST/PUT body
type commentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /v1/publications/:publication_id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	publicationID := c.Param("publication_id")

	comment, err := h.services.Comment.Create(ctx, req.Content, publicationID, user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// GetComment handles GET /v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

// UpdateComment handles PUT /v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	user, ok := GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, req.Content, user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

// DeleteComment handles DELETE /v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user, ok := GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// ListByPublication handles GET /v1/publications/:publication_id/comments
func (h *CommentHandler) ListByPublication(c *gin.Context) {
	page, pageSize := parsePaging(c)

	comments, err := h.services.Comment.ListByPublication(
		c.Request.Context(), c.Param("publication_id"), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments, "page": page, "page_size": pageSize})
}

// CountByPublication handles GET /v1/publications/:publication_id/comments/count
func (h *CommentHandler) CountByPublication(c *gin.Context) {
	count, err := h.services.Comment.CountByPublication(
		c.Request.Context(), c.Param("publication_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ListByUser handles GET /v1/users/:user_id/comments
func (h *CommentHandler) ListByUser(c *gin.Context) {
	page, pageSize := parsePaging(c)

	comments, err := h.services.Comment.ListByUser(
		c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments, "page": page, "page_size": pageSize})
}

// ListByDateRange handles GET /v1/comments?start=&end= with RFC3339 bounds
func (h *CommentHandler) ListByDateRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be an RFC3339 timestamp"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be an RFC3339 timestamp"})
		return
	}

	page, pageSize := parsePaging(c)

	comments, err := h.services.Comment.ListByDateRange(c.Request.Context(), start, end, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments, "page": page, "page_size": pageSize})
}

// ListBySentimentRange handles GET /v1/comments/by-sentiment?min=&max=
func (h *CommentHandler) ListBySentimentRange(c *gin.Context) {
	min, err := strconv.Atoi(c.DefaultQuery("min", strconv.Itoa(models.MinSentiment)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min must be an integer"})
		return
	}
	max, err := strconv.Atoi(c.DefaultQuery("max", strconv.Itoa(models.MaxSentiment)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max must be an integer"})
		return
	}
	if min < models.MinSentiment || max > models.MaxSentiment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sentiment bounds must be between 1 and 5"})
		return
	}

	page, pageSize := parsePaging(c)

	comments, err := h.services.Comment.ListBySentimentRange(c.Request.Context(), min, max, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments, "page": page, "page_size": pageSize})
}

// respondError maps the service error taxonomy onto HTTP status codes
func (h *CommentHandler) respondError(c *gin.Context, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"kind":  string(validationErr.Kind),
		})
		return
	}

	var moderationErr *service.ModerationError
	if errors.As(err, &moderationErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  moderationErr.Error(),
			"reason": string(moderationErr.Reason),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrPublicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
	case errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to modify this comment"})
	default:
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseID reads the :id path parameter; on failure it writes the 400
// response itself
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return 0, false
	}
	return id, true
}

// parsePaging reads page/page_size query parameters, falling back to the
// service defaults on absent or malformed values
func parsePaging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(service.DefaultPage)))
	if err != nil {
		page = service.DefaultPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		pageSize = service.DefaultPageSize
	}
	return page, pageSize
}
