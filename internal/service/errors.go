package service

import (
	"errors"

	"github.com/comment-moderation-api/internal/moderation"
)

// Stable error taxonomy surfaced by the comment service. Validation
// failures are returned as *validation.Error; moderation rejections as
// *ModerationError; everything else matches one of the sentinels below
// via errors.Is.
var (
	ErrPublicationNotFound = errors.New("publication not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrForbidden           = errors.New("operation not permitted for this user")
	ErrPersistenceFailed   = errors.New("failed to persist comment")
)

// ModerationError reports a policy rejection with the specific reason, so
// callers can present a precise message
type ModerationError struct {
	Reason moderation.RejectionReason
}

func (e *ModerationError) Error() string {
	switch e.Reason {
	case moderation.ReasonToxic:
		return "comment was detected as inappropriate or toxic"
	case moderation.ReasonTooNegative:
		return "comment is too negative to be published"
	default:
		return "comment contains inappropriate language"
	}
}
