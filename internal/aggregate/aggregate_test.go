package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/store/memstore"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{Store: config.Store{
		Driver:           config.DriverMemory,
		ConnectTimeout:   time.Second,
		OperationTimeout: 50 * time.Millisecond,
	}}
}

func seed(t *testing.T, mem *memstore.Store, userID string) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := mem.InsertAssessment(ctx, types.AssessmentRecord{UserID: userID, CareerPath: "Software Developer", CreatedAt: base})
	require.NoError(t, err)
	_, err = mem.InsertAssessment(ctx, types.AssessmentRecord{UserID: userID, CareerPath: "Product Manager", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, mem.UpsertChatSession(ctx, types.ChatSessionRecord{SessionID: "s1", UserID: userID}))
	require.NoError(t, mem.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: userID, ResourceID: "a"}))
	require.NoError(t, mem.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: userID, ResourceID: "b"}))
	require.NoError(t, mem.UpsertLearningProgress(ctx, types.LearningProgressRecord{UserID: userID, ResourceID: "c"}))
}

func TestGetUserData(t *testing.T) {
	mem := memstore.New()
	seed(t, mem, "u1")
	r := NewReader(config.Static(testConfig()), mem, nil, nil)

	got := r.GetUserData(context.Background(), "u1")

	require.NotNil(t, got.LatestAssessment)
	assert.Equal(t, "Product Manager", got.LatestAssessment.CareerPath)
	assert.Equal(t, types.UserStats{AssessmentCount: 2, ChatSessionCount: 1, ResourcesViewedCount: 3}, got.Stats)
	assert.Equal(t, 1, mem.Closes())
}

func TestGetUserData_NoRecords(t *testing.T) {
	r := NewReader(config.Static(testConfig()), memstore.New(), nil, nil)

	got := r.GetUserData(context.Background(), "nobody")
	assert.Equal(t, types.UserAggregate{}, got)
}

func TestGetUserData_Unconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = config.DriverPostgres
	mem := memstore.New()
	seed(t, mem, "u1")

	got := NewReader(config.Static(cfg), mem, nil, nil).GetUserData(context.Background(), "u1")
	assert.Equal(t, types.UserAggregate{}, got)
	assert.Equal(t, 0, mem.Dials())
}

func TestGetUserData_ConfigError(t *testing.T) {
	r := NewReader(func() (*config.Config, error) { return nil, errors.New("bad env") }, memstore.New(), nil, nil)
	assert.Equal(t, types.UserAggregate{}, r.GetUserData(context.Background(), "u1"))
}

func TestGetUserData_ConnectFailure(t *testing.T) {
	mem := memstore.New()
	seed(t, mem, "u1")
	mem.Fail(store.OpConnect, errors.New("no route to host"))

	got := NewReader(config.Static(testConfig()), mem, nil, nil).GetUserData(context.Background(), "u1")
	assert.Equal(t, types.UserAggregate{}, got)
}

func TestGetUserData_PartialFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memstore.Store)
		want  func(*testing.T, types.UserAggregate)
	}{
		{
			name:  "latest assessment fails",
			setup: func(m *memstore.Store) { m.Fail(store.OpLatestAssessment, errors.New("boom")) },
			want: func(t *testing.T, got types.UserAggregate) {
				assert.Nil(t, got.LatestAssessment)
				assert.Equal(t, types.UserStats{AssessmentCount: 2, ChatSessionCount: 1, ResourcesViewedCount: 3}, got.Stats)
			},
		},
		{
			name:  "chat count times out",
			setup: func(m *memstore.Store) { m.Delay(store.OpCountChatSessions, time.Second) },
			want: func(t *testing.T, got types.UserAggregate) {
				require.NotNil(t, got.LatestAssessment)
				assert.Equal(t, types.UserStats{AssessmentCount: 2, ChatSessionCount: 0, ResourcesViewedCount: 3}, got.Stats)
			},
		},
		{
			name: "every read fails",
			setup: func(m *memstore.Store) {
				for _, op := range []string{store.OpLatestAssessment, store.OpCountAssessments, store.OpCountChatSessions, store.OpCountLearningProgress} {
					m.Fail(op, errors.New("boom"))
				}
			},
			want: func(t *testing.T, got types.UserAggregate) {
				assert.Equal(t, types.UserAggregate{}, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memstore.New()
			seed(t, mem, "u1")
			tt.setup(mem)

			start := time.Now()
			got := NewReader(config.Static(testConfig()), mem, nil, nil).GetUserData(context.Background(), "u1")
			tt.want(t, got)
			assert.Less(t, time.Since(start), 500*time.Millisecond, "reads are bounded by the operation timeout")
		})
	}
}
