// Package gateway persists assessments, chat transcripts and learning progress
// under an authenticated user. Every call reads configuration, opens its own
// store session, bounds each step in time and releases the session before
// returning.
package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/types"
)

// Gateway is the write boundary to the document store.
type Gateway struct {
	source  config.Source
	dialer  store.Dialer
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDGenerator overrides chat session id generation.
func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) { g.newID = newID }
}

// New creates a gateway reading configuration from source and dialing with dialer.
func New(source config.Source, dialer store.Dialer, opts ...Option) *Gateway {
	g := &Gateway{
		source: source,
		dialer: dialer,
		log:    logger.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Progress describes a resource view or completion.
type Progress struct {
	ResourceID   string
	ResourceType string
	Title        string
	URL          string
	Completed    bool
}

// SaveAssessment inserts a new assessment record. It never overwrites.
func (g *Gateway) SaveAssessment(ctx context.Context, user identity.User, answers map[string]any, careerPath string) (types.AssessmentRecord, error) {
	if err := requireUser(user); err != nil {
		return types.AssessmentRecord{}, err
	}

	now := g.now()
	rec := types.AssessmentRecord{
		UserID:     user.ID,
		UserEmail:  user.Email,
		Answers:    answers,
		CareerPath: careerPath,
		Timestamp:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if rec.Answers == nil {
		rec.Answers = map[string]any{}
	}

	id, err := run(ctx, g, user, store.OpInsertAssessment, "Failed to save assessment", func(ctx context.Context, s store.Store) (string, error) {
		return s.InsertAssessment(ctx, rec)
	})
	if err != nil {
		return types.AssessmentRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

// SaveChatSession replaces the full transcript of a session, creating it if
// absent. An empty sessionID gets a new one. It returns the session id used.
func (g *Gateway) SaveChatSession(ctx context.Context, user identity.User, sessionID string, messages []types.ChatMessage) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	if sessionID == "" {
		sessionID = g.newID()
	}
	if messages == nil {
		messages = []types.ChatMessage{}
	}

	now := g.now()
	rec := types.ChatSessionRecord{
		SessionID: sessionID,
		UserID:    user.ID,
		UserEmail: user.Email,
		Messages:  messages,
		Timestamp: now,
		UpdatedAt: now,
	}

	_, err := run(ctx, g, user, store.OpUpsertChatSession, "Failed to save chat session", func(ctx context.Context, s store.Store) (struct{}, error) {
		return struct{}{}, s.UpsertChatSession(ctx, rec)
	})
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// TrackLearningProgress upserts the record keyed by (user, resource). Missing
// title, url and type are filled from the learning resource catalog.
func (g *Gateway) TrackLearningProgress(ctx context.Context, user identity.User, p Progress) error {
	if err := requireUser(user); err != nil {
		return err
	}

	if known, ok := resources.Lookup(p.ResourceID); ok {
		if p.Title == "" {
			p.Title = known.Title
		}
		if p.URL == "" {
			p.URL = known.URL
		}
		if p.ResourceType == "" {
			p.ResourceType = known.Type
		}
	}

	now := g.now()
	rec := types.LearningProgressRecord{
		UserID:       user.ID,
		UserEmail:    user.Email,
		ResourceID:   p.ResourceID,
		ResourceType: p.ResourceType,
		Title:        p.Title,
		URL:          p.URL,
		Completed:    p.Completed,
		ViewedAt:     now,
		UpdatedAt:    now,
	}

	_, err := run(ctx, g, user, store.OpUpsertLearningProgress, "Failed to track learning progress", func(ctx context.Context, s store.Store) (struct{}, error) {
		return struct{}{}, s.UpsertLearningProgress(ctx, rec)
	})
	return err
}

func requireUser(user identity.User) error {
	if user.ID == "" {
		return identity.ErrUnauthenticated
	}
	return nil
}

// run executes one store operation inside its own bounded session.
func run[T any](ctx context.Context, g *Gateway, user identity.User, op, message string, fn func(context.Context, store.Store) (T, error)) (T, error) {
	var zero T
	log := g.log.With("op", op, "user_id", user.ID)

	cfg, err := g.source()
	if err != nil {
		log.Error("failed to load configuration", "err", err)
		return zero, &PersistenceError{Op: op, Message: message, Cause: err}
	}
	if !cfg.Store.Configured() {
		log.Error("document store is not configured")
		g.metrics.ObserveStoreOp(op, observability.OutcomeUnconfigured)
		return zero, ErrConfigurationMissing
	}

	s, err := store.Connect(ctx, g.dialer, cfg.Store)
	if err != nil {
		log.Error("failed to connect to document store", "err", err)
		g.metrics.ObserveStoreOp(store.OpConnect, observability.StoreOutcome(err))
		return zero, &PersistenceError{Op: store.OpConnect, Message: message, Cause: err}
	}
	defer store.Release(ctx, s, cfg.Store.OperationTimeout, log)

	v, err := store.Race(ctx, cfg.Store.OperationTimeout, func(ctx context.Context) (T, error) {
		return fn(ctx, s)
	})
	g.metrics.ObserveStoreOp(op, observability.StoreOutcome(err))
	if err != nil {
		log.Error("store operation failed", "err", err)
		return zero, &PersistenceError{Op: op, Message: message, Cause: err}
	}
	return v, nil
}
