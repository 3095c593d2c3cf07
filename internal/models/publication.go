package models

import "time"

// Publication is the referenced entity a comment attaches to. The comment
// pipeline only ever checks existence; the full publication lifecycle is
// owned by another service.
type Publication struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
