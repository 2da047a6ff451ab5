package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/studylens/studylens/internal/config"
	"github.com/studylens/studylens/internal/core"
	"github.com/studylens/studylens/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(pingCtx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Implementing the db interface for users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	return err
}

func (c *DatabaseClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Implementing the db interface for generations

func (c *DatabaseClient) CreateGeneration(ctx context.Context, gen *models.Generation) error {
	if gen == nil {
		return errors.New("nil generation")
	}
	const q = `
		INSERT INTO generations
			(id, user_id, original_content, generated_content, file_name,
			 generation_type, user_given_name, upload_date, original_file_url)
		VALUES
			($1, $2, $3, $4, $5, $6, NULLIF($7, ''), COALESCE($8, now()), $9)
	`
	_, err := c.db.ExecContext(ctx, q,
		gen.ID, gen.UserID, gen.OriginalContent, gen.GeneratedContent, gen.FileName,
		string(gen.GenerationType), gen.UserGivenName, gen.UploadDate, gen.OriginalFileURL)
	return err
}

func (c *DatabaseClient) GetGenerationByID(ctx context.Context, id string) (*models.Generation, error) {
	const q = `
		SELECT id, user_id, original_content, generated_content, file_name,
		       generation_type, COALESCE(user_given_name, ''), upload_date, original_file_url
		FROM generations
		WHERE id = $1
	`
	var g models.Generation
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&g.ID, &g.UserID, &g.OriginalContent, &g.GeneratedContent, &g.FileName,
		&g.GenerationType, &g.UserGivenName, &g.UploadDate, &g.OriginalFileURL,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *DatabaseClient) ListGenerationsByUser(ctx context.Context, userID string) ([]models.Generation, error) {
	const q = `
		SELECT id, user_id, original_content, generated_content, file_name,
		       generation_type, COALESCE(user_given_name, ''), upload_date, original_file_url
		FROM generations
		WHERE user_id = $1
		ORDER BY upload_date DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Generation
	for rows.Next() {
		var g models.Generation
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.OriginalContent, &g.GeneratedContent, &g.FileName,
			&g.GenerationType, &g.UserGivenName, &g.UploadDate, &g.OriginalFileURL,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGenerationName renames the record only when it belongs to userID.
// generation_type and the content columns are never touched here.
func (c *DatabaseClient) UpdateGenerationName(ctx context.Context, id, userID, name string) (bool, error) {
	const q = `
		UPDATE generations
		SET user_given_name = $3
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, userID, name)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (c *DatabaseClient) DeleteGeneration(ctx context.Context, id, userID string) (bool, error) {
	const q = `
		DELETE FROM generations
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
