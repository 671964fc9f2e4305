// Package pgstore implements the document store on PostgreSQL using JSONB columns.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// migrated records database URLs whose schema has been applied by this process
var migrated sync.Map

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Dial establishes a connection pool to cfg.PostgresURL and applies the
// schema the first time a URL is seen.
func Dial(ctx context.Context, cfg config.Store) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, done := migrated.Load(cfg.PostgresURL); !done {
		if _, err := pool.Exec(ctx, schemaSQL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		migrated.Store(cfg.PostgresURL, struct{}{})
	}

	return &Store{pool: pool}, nil
}

// InsertAssessment inserts a new row and returns its UUID.
func (s *Store) InsertAssessment(ctx context.Context, rec types.AssessmentRecord) (string, error) {
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal answers: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO assessments (id, user_id, user_email, answers, career_path, timestamp, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, rec.UserID, rec.UserEmail, answers, rec.CareerPath, rec.Timestamp, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert assessment: %w", err)
	}
	return id.String(), nil
}

// UpsertChatSession replaces the row keyed by session_id.
func (s *Store) UpsertChatSession(ctx context.Context, rec types.ChatSessionRecord) error {
	messages := rec.Messages
	if messages == nil {
		messages = []types.ChatMessage{}
	}
	jsonBytes, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO chat_sessions (session_id, user_id, user_email, messages, timestamp, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id) DO UPDATE SET
		     user_id = $2,
		     user_email = $3,
		     messages = $4,
		     timestamp = $5,
		     updated_at = $6`,
		rec.SessionID, rec.UserID, rec.UserEmail, jsonBytes, rec.Timestamp, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert chat session: %w", err)
	}
	return nil
}

// UpsertLearningProgress replaces the row keyed by (user_id, resource_id).
func (s *Store) UpsertLearningProgress(ctx context.Context, rec types.LearningProgressRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO learning_progress (user_id, resource_id, user_email, resource_type, title, url, completed, viewed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id, resource_id) DO UPDATE SET
		     user_email = $3,
		     resource_type = $4,
		     title = $5,
		     url = $6,
		     completed = $7,
		     viewed_at = $8,
		     updated_at = $9`,
		rec.UserID, rec.ResourceID, rec.UserEmail, rec.ResourceType, rec.Title, rec.URL, rec.Completed, rec.ViewedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert learning progress: %w", err)
	}
	return nil
}

// LatestAssessment returns the user's newest assessment by created_at, or nil.
func (s *Store) LatestAssessment(ctx context.Context, userID string) (*types.AssessmentRecord, error) {
	var (
		rec     types.AssessmentRecord
		id      uuid.UUID
		answers []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, user_email, answers, career_path, timestamp, created_at, updated_at
		 FROM assessments
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&id, &rec.UserID, &rec.UserEmail, &answers, &rec.CareerPath, &rec.Timestamp, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest assessment: %w", err)
	}

	if err := json.Unmarshal(answers, &rec.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	rec.ID = id.String()
	return &rec, nil
}

func (s *Store) CountAssessments(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM assessments WHERE user_id = $1`, "assessments", userID)
}

func (s *Store) CountChatSessions(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1`, "chat sessions", userID)
}

func (s *Store) CountLearningProgress(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM learning_progress WHERE user_id = $1`, "learning progress", userID)
}

func (s *Store) count(ctx context.Context, query, what, userID string) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

// Close closes the connection pool
func (s *Store) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
