package models

import (
	"time"
)

// Comment represents a moderated comment on a publication
type Comment struct {
	ID            int64     `json:"id" db:"id"`
	PublicationID string    `json:"publication_id" db:"publication_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	UserName      string    `json:"user_name" db:"user_name"`
	Content       string    `json:"content" db:"content"`
	Sentiment     int       `json:"sentiment" db:"sentiment"`
	ToxicityScore float64   `json:"toxicity_score" db:"toxicity_score"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// AnalysisResult holds the normalized output of a single moderation analysis.
// It is produced per submission and folded into the Comment; it is never
// persisted on its own.
type AnalysisResult struct {
	Sentiment     int     `json:"sentiment"`
	ToxicityScore float64 `json:"toxicity_score"`
}

// UserData is the authenticated identity handed to the pipeline by the
// upstream gateway. It is trusted verbatim.
type UserData struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Content length bounds, measured in characters after trimming
const (
	MinContentLength = 2
	MaxContentLength = 1000
)

// Sentiment scale bounds (1 = very negative, 5 = very positive)
const (
	MinSentiment = 1
	MaxSentiment = 5
)
