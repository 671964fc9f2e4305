// Package store defines the document store boundary used by the persistence
// gateway and the aggregation reader, plus the bounded-time helpers that wrap
// every store call.
package store

import (
	"context"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/types"
)

// Collection names shared by every driver.
const (
	CollectionAssessments      = "assessments"
	CollectionChatSessions     = "chat_sessions"
	CollectionLearningProgress = "learning_progress"
)

// Operation names used in logs, metrics and errors.
const (
	OpConnect                = "connect"
	OpClose                  = "close"
	OpInsertAssessment       = "insert_assessment"
	OpUpsertChatSession      = "upsert_chat_session"
	OpUpsertLearningProgress = "upsert_learning_progress"
	OpLatestAssessment       = "latest_assessment"
	OpCountAssessments       = "count_assessments"
	OpCountChatSessions      = "count_chat_sessions"
	OpCountLearningProgress  = "count_learning_progress"
)

// Store is one open session against the document store.
type Store interface {
	// InsertAssessment stores a new assessment and returns its id.
	InsertAssessment(ctx context.Context, rec types.AssessmentRecord) (string, error)
	// UpsertChatSession replaces the session keyed by rec.SessionID, creating it if absent.
	UpsertChatSession(ctx context.Context, rec types.ChatSessionRecord) error
	// UpsertLearningProgress replaces the record keyed by (UserID, ResourceID), creating it if absent.
	UpsertLearningProgress(ctx context.Context, rec types.LearningProgressRecord) error
	// LatestAssessment returns the most recently created assessment, or nil when the user has none.
	LatestAssessment(ctx context.Context, userID string) (*types.AssessmentRecord, error)
	CountAssessments(ctx context.Context, userID string) (int64, error)
	CountChatSessions(ctx context.Context, userID string) (int64, error)
	CountLearningProgress(ctx context.Context, userID string) (int64, error)
	// Close releases the session.
	Close(ctx context.Context) error
}

// Dialer opens store sessions.
type Dialer interface {
	Dial(ctx context.Context, cfg config.Store) (Store, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, cfg config.Store) (Store, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, cfg config.Store) (Store, error) {
	return f(ctx, cfg)
}
