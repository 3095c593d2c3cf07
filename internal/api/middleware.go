package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/comment-moderation-api/internal/metrics"
	"github.com/comment-moderation-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for request ID
	RequestIDKey = "request_id"

	// Identity headers forwarded by the authenticating gateway
	UserIDHeader   = "X-User-Id"
	UserNameHeader = "X-User-Name"
	// UserKey is the context key for the acting identity
	UserKey = "user"
)

// RequestID middleware adds a unique request ID to each request.
// If the client provides an X-Request-ID header, it is used; otherwise a
// new UUID is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// Identity extracts the authenticated user forwarded by the gateway. The
// gateway has already verified the session; this service trusts the
// headers verbatim. Requests without a complete identity are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := models.UserData{
			ID:          c.GetHeader(UserIDHeader),
			DisplayName: c.GetHeader(UserNameHeader),
		}
		if user.ID == "" || user.DisplayName == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// GetUser retrieves the acting identity from the gin context
func GetUser(c *gin.Context) (models.UserData, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return models.UserData{}, false
	}
	user, ok := value.(models.UserData)
	return user, ok
}

// Metrics returns a middleware that records Prometheus metrics for HTTP
// requests: request totals by method/path/status, duration histogram, and
// in-flight gauge
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-referential metrics
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}
