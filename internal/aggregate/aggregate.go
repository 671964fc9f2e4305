// Package aggregate assembles a user's stored history for the dashboard.
package aggregate

import (
	"context"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/types"
	"golang.org/x/sync/errgroup"
)

// Reader builds user aggregates. It never fails: anything it cannot read is
// reported at its default value.
type Reader struct {
	source  config.Source
	dialer  store.Dialer
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewReader creates a reader. A nil logger discards output.
func NewReader(source config.Source, dialer store.Dialer, log *logger.Logger, metrics *observability.Metrics) *Reader {
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{source: source, dialer: dialer, log: log, metrics: metrics}
}

// GetUserData returns the latest assessment and record counts for userID.
// Each of the four reads is bounded and fault-isolated; a failed read leaves
// its field at the default. Missing configuration or a failed connect yields
// the all-defaults aggregate.
func (r *Reader) GetUserData(ctx context.Context, userID string) types.UserAggregate {
	var out types.UserAggregate
	log := r.log.With("user_id", userID)

	cfg, err := r.source()
	if err != nil {
		log.Warn("failed to load configuration, returning defaults", "err", err)
		return out
	}
	if !cfg.Store.Configured() {
		log.Warn("document store is not configured, returning defaults")
		r.metrics.ObserveStoreOp(store.OpConnect, observability.OutcomeUnconfigured)
		return out
	}

	s, err := store.Connect(ctx, r.dialer, cfg.Store)
	if err != nil {
		log.Warn("failed to connect to document store, returning defaults", "op", store.OpConnect, "err", err)
		r.metrics.ObserveStoreOp(store.OpConnect, observability.StoreOutcome(err))
		return out
	}
	defer store.Release(ctx, s, cfg.Store.OperationTimeout, log)

	timeout := cfg.Store.OperationTimeout
	var (
		latest                                   *types.AssessmentRecord
		assessments, chatSessions, resourcesSeen int64
	)

	var g errgroup.Group
	g.Go(func() error {
		latest = read(ctx, r, log, store.OpLatestAssessment, timeout, func(ctx context.Context) (*types.AssessmentRecord, error) {
			return s.LatestAssessment(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		assessments = read(ctx, r, log, store.OpCountAssessments, timeout, func(ctx context.Context) (int64, error) {
			return s.CountAssessments(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		chatSessions = read(ctx, r, log, store.OpCountChatSessions, timeout, func(ctx context.Context) (int64, error) {
			return s.CountChatSessions(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		resourcesSeen = read(ctx, r, log, store.OpCountLearningProgress, timeout, func(ctx context.Context) (int64, error) {
			return s.CountLearningProgress(ctx, userID)
		})
		return nil
	})
	_ = g.Wait()

	out.LatestAssessment = latest
	out.Stats = types.UserStats{
		AssessmentCount:      assessments,
		ChatSessionCount:     chatSessions,
		ResourcesViewedCount: resourcesSeen,
	}
	return out
}

// read runs one bounded read and returns the zero value on any failure.
func read[T any](ctx context.Context, r *Reader, log *logger.Logger, op string, timeout time.Duration, fn func(context.Context) (T, error)) T {
	v, err := store.Race(ctx, timeout, fn)
	r.metrics.ObserveStoreOp(op, observability.StoreOutcome(err))
	if err != nil {
		log.Warn("store read failed, using default", "op", op, "err", err)
		var zero T
		return zero
	}
	return v
}
