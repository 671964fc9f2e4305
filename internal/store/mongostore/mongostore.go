// Package mongostore implements the document store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store is one client session against a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

type assessmentDocument struct {
	ID                     bson.ObjectID `bson:"_id"`
	types.AssessmentRecord `bson:",inline"`
}

// Dial connects to cfg.MongoURI and verifies the connection.
func Dial(ctx context.Context, cfg config.Store) (*Store, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo connection string is empty")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.DatabaseName()),
	}, nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// InsertAssessment inserts a new assessment document and returns its ObjectID in hex.
func (s *Store) InsertAssessment(ctx context.Context, rec types.AssessmentRecord) (string, error) {
	doc := assessmentDocument{ID: bson.NewObjectID(), AssessmentRecord: rec}
	if _, err := s.collection(store.CollectionAssessments).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert assessment: %w", err)
	}
	return doc.ID.Hex(), nil
}

// UpsertChatSession replaces the session document keyed by sessionId.
func (s *Store) UpsertChatSession(ctx context.Context, rec types.ChatSessionRecord) error {
	_, err := s.collection(store.CollectionChatSessions).ReplaceOne(ctx,
		bson.M{"sessionId": rec.SessionID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert chat session: %w", err)
	}
	return nil
}

// UpsertLearningProgress replaces the progress document keyed by (userId, resourceId).
func (s *Store) UpsertLearningProgress(ctx context.Context, rec types.LearningProgressRecord) error {
	_, err := s.collection(store.CollectionLearningProgress).ReplaceOne(ctx,
		bson.M{"userId": rec.UserID, "resourceId": rec.ResourceID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert learning progress: %w", err)
	}
	return nil
}

// LatestAssessment returns the user's newest assessment by createdAt, or nil.
func (s *Store) LatestAssessment(ctx context.Context, userID string) (*types.AssessmentRecord, error) {
	var doc assessmentDocument
	err := s.collection(store.CollectionAssessments).FindOne(ctx,
		bson.M{"userId": userID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest assessment: %w", err)
	}

	rec := doc.AssessmentRecord
	rec.ID = doc.ID.Hex()
	return &rec, nil
}

func (s *Store) CountAssessments(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, store.CollectionAssessments, userID)
}

func (s *Store) CountChatSessions(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, store.CollectionChatSessions, userID)
}

func (s *Store) CountLearningProgress(ctx context.Context, userID string) (int64, error) {
	return s.count(ctx, store.CollectionLearningProgress, userID)
}

func (s *Store) count(ctx context.Context, collection, userID string) (int64, error) {
	n, err := s.collection(collection).CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
