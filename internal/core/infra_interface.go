package core

import (
	"context"

	"github.com/studylens/studylens/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateGeneration(ctx context.Context, gen *models.Generation) error
	GetGenerationByID(ctx context.Context, id string) (*models.Generation, error)
	ListGenerationsByUser(ctx context.Context, userID string) ([]models.Generation, error)
	// UpdateGenerationName sets user_given_name on the record matching both id
	// and userID. It reports whether such a record existed.
	UpdateGenerationName(ctx context.Context, id, userID, name string) (bool, error)
	// DeleteGeneration removes the record matching both id and userID and
	// reports whether such a record existed.
	DeleteGeneration(ctx context.Context, id, userID string) (bool, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Abstract so AWS can be swapped for MinIO, GCP, etc.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// LLMProvider is the generative backend. Failures are opaque single errors;
// retry policy, if any, lives behind this interface.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// OCREngine is one acquired OCR session. Close must be called when the
// extraction call that acquired it returns, success or not.
type OCREngine interface {
	Recognize(image []byte) (string, error)
	Close() error
}

// OCREngineFactory acquires a fresh engine for a single extraction call.
// Engines are not shared or pooled across requests.
type OCREngineFactory func() (OCREngine, error)
