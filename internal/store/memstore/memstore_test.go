package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*Store)(nil)
var _ store.Dialer = (*Store)(nil)

func TestInsertAndLatestAssessment(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.InsertAssessment(ctx, types.AssessmentRecord{UserID: "u1", CareerPath: "Software Developer", CreatedAt: base})
	require.NoError(t, err)
	second, err := s.InsertAssessment(ctx, types.AssessmentRecord{UserID: "u1", CareerPath: "UX/UI Designer", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	_, err = s.InsertAssessment(ctx, types.AssessmentRecord{UserID: "u2", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	latest, err := s.LatestAssessment(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, "UX/UI Designer", latest.CareerPath)

	n, err := s.CountAssessments(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	none, err := s.LatestAssessment(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpsertChatSession_Replaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.UpsertChatSession(ctx, types.ChatSessionRecord{SessionID: "s1", UserID: "u1", Messages: []types.ChatMessage{{ID: "1", Content: "hi"}}}))
	require.NoError(t, s.UpsertChatSession(ctx, types.ChatSessionRecord{SessionID: "s1", UserID: "u1", Messages: []types.ChatMessage{{ID: "1", Content: "hi"}, {ID: "2", Content: "hello"}}}))

	assert.Equal(t, 1, s.ChatSessionCount())
	rec, ok := s.ChatSession("s1")
	require.True(t, ok)
	assert.Len(t, rec.Messages, 2)

	n, err := s.CountChatSessions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsertLearningProgress_KeyedByUserAndResource(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: "u1", ResourceID: "r1"}))
	require.NoError(t, s.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: "u1", ResourceID: "r1", Completed: true}))
	require.NoError(t, s.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: "u2", ResourceID: "r1"}))

	rec, ok := s.Progress("u1", "r1")
	require.True(t, ok)
	assert.True(t, rec.Completed)

	n, err := s.CountLearningProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFaultInjection(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	s.Fail(store.OpCountChatSessions, boom)
	_, err := s.CountChatSessions(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	_, err = s.CountAssessments(ctx, "u1")
	assert.NoError(t, err, "faults are per operation")

	s.Fail(store.OpCountChatSessions, nil)
	_, err = s.CountChatSessions(ctx, "u1")
	assert.NoError(t, err)

	s.Fail(store.OpConnect, boom)
	_, err = s.Dial(ctx, config.Store{})
	assert.ErrorIs(t, err, boom)
}

func TestDelayHonorsContext(t *testing.T) {
	s := New()
	s.Delay(store.OpInsertAssessment, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.InsertAssessment(ctx, types.AssessmentRecord{UserID: "u1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, s.Assessments("u1"))
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}
