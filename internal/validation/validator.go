package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/comment-moderation-api/internal/models"
)

// Kind identifies the validation failure class
type Kind string

const (
	ContentMissing     Kind = "content_missing"
	ContentEmpty       Kind = "content_empty"
	ContentTooShort    Kind = "content_too_short"
	ContentTooLong     Kind = "content_too_long"
	IdentityIncomplete Kind = "identity_incomplete"
)

// Error represents a single validation error
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ValidateContent checks raw comment text against the content rules.
// Trimming is applied before the length checks; length is measured in runes.
func ValidateContent(content string) error {
	if content == "" {
		return &Error{Kind: ContentMissing, Field: "content", Message: "content is required"}
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &Error{Kind: ContentEmpty, Field: "content", Message: "content cannot be empty"}
	}

	length := utf8.RuneCountInString(trimmed)
	if length < models.MinContentLength {
		return &Error{
			Kind:    ContentTooShort,
			Field:   "content",
			Message: fmt.Sprintf("content must be at least %d characters", models.MinContentLength),
		}
	}
	if length > models.MaxContentLength {
		return &Error{
			Kind:    ContentTooLong,
			Field:   "content",
			Message: fmt.Sprintf("content exceeds maximum of %d characters", models.MaxContentLength),
		}
	}

	return nil
}

// ValidateUserData checks that the acting identity is complete
func ValidateUserData(user models.UserData) error {
	if user.ID == "" || user.DisplayName == "" {
		return &Error{
			Kind:    IdentityIncomplete,
			Field:   "user",
			Message: "user id and display name are required",
		}
	}
	return nil
}

// ValidateComment runs all submission checks for one comment
func ValidateComment(content string, user models.UserData) error {
	if err := ValidateContent(content); err != nil {
		return err
	}
	return ValidateUserData(user)
}
