// Package memstore is an in-process document store for development and tests.
// Faults and delays can be injected per operation.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/types"
)

type progressKey struct {
	userID     string
	resourceID string
}

// Store keeps every collection in memory. Sessions dialed from it share its
// data; closing a session only counts the call.
type Store struct {
	mu           sync.Mutex
	assessments  []types.AssessmentRecord
	chatSessions map[string]types.ChatSessionRecord
	progress     map[progressKey]types.LearningProgressRecord

	faults map[string]error
	delays map[string]time.Duration
	dials  int
	closes int
}

var (
	sharedOnce sync.Once
	shared     *Store
)

// New creates an empty store.
func New() *Store {
	return &Store{
		chatSessions: make(map[string]types.ChatSessionRecord),
		progress:     make(map[progressKey]types.LearningProgressRecord),
		faults:       make(map[string]error),
		delays:       make(map[string]time.Duration),
	}
}

// Shared returns the process-wide store used by the "memory" driver.
func Shared() *Store {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}

// Fail makes op return err until cleared with a nil err.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Delay makes op wait d before running.
func (s *Store) Delay(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		delete(s.delays, op)
		return
	}
	s.delays[op] = d
}

// Dial returns a session backed by s. It honors faults and delays injected
// for store.OpConnect.
func (s *Store) Dial(ctx context.Context, _ config.Store) (store.Store, error) {
	if err := s.enter(ctx, store.OpConnect); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.dials++
	s.mu.Unlock()
	return s, nil
}

// Dials reports how many sessions were opened.
func (s *Store) Dials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials
}

// Closes reports how many sessions were closed.
func (s *Store) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// enter applies the injected delay and fault for op.
func (s *Store) enter(ctx context.Context, op string) error {
	s.mu.Lock()
	delay := s.delays[op]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults[op]; err != nil {
		return fmt.Errorf("memstore %s: %w", op, err)
	}
	return nil
}

func (s *Store) InsertAssessment(ctx context.Context, rec types.AssessmentRecord) (string, error) {
	if err := s.enter(ctx, store.OpInsertAssessment); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.Answers = cloneAnswers(rec.Answers)
	s.assessments = append(s.assessments, rec)
	return rec.ID, nil
}

func (s *Store) UpsertChatSession(ctx context.Context, rec types.ChatSessionRecord) error {
	if err := s.enter(ctx, store.OpUpsertChatSession); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Messages = slices.Clone(rec.Messages)
	s.chatSessions[rec.SessionID] = rec
	return nil
}

func (s *Store) UpsertLearningProgress(ctx context.Context, rec types.LearningProgressRecord) error {
	if err := s.enter(ctx, store.OpUpsertLearningProgress); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progressKey{userID: rec.UserID, resourceID: rec.ResourceID}] = rec
	return nil
}

func (s *Store) LatestAssessment(ctx context.Context, userID string) (*types.AssessmentRecord, error) {
	if err := s.enter(ctx, store.OpLatestAssessment); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *types.AssessmentRecord
	for i := range s.assessments {
		rec := s.assessments[i]
		if rec.UserID != userID {
			continue
		}
		// later inserts win ties
		if latest == nil || !rec.CreatedAt.Before(latest.CreatedAt) {
			latest = &rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	out.Answers = cloneAnswers(out.Answers)
	return &out, nil
}

func (s *Store) CountAssessments(ctx context.Context, userID string) (int64, error) {
	if err := s.enter(ctx, store.OpCountAssessments); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, rec := range s.assessments {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountChatSessions(ctx context.Context, userID string) (int64, error) {
	if err := s.enter(ctx, store.OpCountChatSessions); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, rec := range s.chatSessions {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountLearningProgress(ctx context.Context, userID string) (int64, error) {
	if err := s.enter(ctx, store.OpCountLearningProgress); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key := range s.progress {
		if key.userID == userID {
			n++
		}
	}
	return n, nil
}

// Close counts the call and honors faults injected for store.OpClose.
func (s *Store) Close(ctx context.Context) error {
	if err := s.enter(ctx, store.OpClose); err != nil {
		return err
	}
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	return nil
}

// Assessments returns the stored assessments for userID in insertion order.
func (s *Store) Assessments(userID string) []types.AssessmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.AssessmentRecord
	for _, rec := range s.assessments {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// ChatSession returns the stored transcript for sessionID.
func (s *Store) ChatSession(sessionID string) (types.ChatSessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.chatSessions[sessionID]
	return rec, ok
}

// ChatSessionCount returns the number of stored sessions across all users.
func (s *Store) ChatSessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chatSessions)
}

// Progress returns the stored progress record for (userID, resourceID).
func (s *Store) Progress(userID, resourceID string) (types.LearningProgressRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.progress[progressKey{userID: userID, resourceID: resourceID}]
	return rec, ok
}

func cloneAnswers(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case []string:
			out[k] = slices.Clone(vv)
		case []any:
			out[k] = slices.Clone(vv)
		default:
			out[k] = v
		}
	}
	return out
}
