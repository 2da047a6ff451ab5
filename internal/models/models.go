package models

import (
	"time"
)

// GenerationType is the kind of derived artifact a generation run produces.
// It is fixed at creation time and never changes for a persisted record.
type GenerationType string

const (
	TypeSummary    GenerationType = "summary"
	TypeFlashcards GenerationType = "flashcards"
	TypeKeyPoints  GenerationType = "key_points"
)

// Valid reports whether t is one of the recognized generation types.
func (t GenerationType) Valid() bool {
	switch t {
	case TypeSummary, TypeFlashcards, TypeKeyPoints:
		return true
	}
	return false
}

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Generation is the persisted outcome of one successful ingestion run:
// the extracted source text plus the AI-derived artifact, owned by one user.
type Generation struct {
	ID               string         `db:"id" json:"id"`
	UserID           string         `db:"user_id" json:"user_id"`
	OriginalContent  string         `db:"original_content" json:"original_content"`
	GeneratedContent string         `db:"generated_content" json:"generated_content"`
	FileName         string         `db:"file_name" json:"file_name"`
	GenerationType   GenerationType `db:"generation_type" json:"generation_type"`
	UserGivenName    string         `db:"user_given_name" json:"user_given_name,omitempty"`
	UploadDate       time.Time      `db:"upload_date" json:"upload_date"`
	OriginalFileURL  string         `db:"original_file_url" json:"original_file_url"`
}
