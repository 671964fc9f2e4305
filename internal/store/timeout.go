package store

import (
	"context"
	"time"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/logger"
)

// Race runs op against a timer of the given duration. The first to finish
// wins; a timer win returns ErrTimeout and abandons op, which keeps running
// and may still take effect. A non-positive timeout disables the timer.
func Race[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	return race(ctx, timeout, op, nil)
}

// Connect dials a session bounded by cfg.ConnectTimeout. A session that
// arrives after the timer fired is closed in the background.
func Connect(ctx context.Context, d Dialer, cfg config.Store) (Store, error) {
	return race(ctx, cfg.ConnectTimeout, func(ctx context.Context) (Store, error) {
		return d.Dial(ctx, cfg)
	}, func(s Store) {
		if s != nil {
			_ = s.Close(context.Background())
		}
	})
}

// Release closes s within timeout. Failures are logged, never returned.
func Release(ctx context.Context, s Store, timeout time.Duration, log *logger.Logger) {
	if s == nil {
		return
	}
	// the caller's context may already be done; closing must still happen
	ctx = context.WithoutCancel(ctx)
	_, err := Race(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Close(ctx)
	})
	if err != nil && log != nil {
		log.Warn("failed to release store session", "op", OpClose, "err", err)
	}
}

type outcome[T any] struct {
	value T
	err   error
}

func race[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error), abandoned func(T)) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(ctx)
		done <- outcome[T]{value: v, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-expired:
		reap(done, abandoned)
		return zero, ErrTimeout
	case <-ctx.Done():
		reap(done, abandoned)
		return zero, ctx.Err()
	}
}

// reap hands a late successful result to abandoned once op finishes.
func reap[T any](done <-chan outcome[T], abandoned func(T)) {
	if abandoned == nil {
		return
	}
	go func() {
		r := <-done
		if r.err == nil {
			abandoned(r.value)
		}
	}()
}
