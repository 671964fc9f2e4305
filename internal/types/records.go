package types

import "time"

// Sender identifies the author of a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is one entry of a chat transcript
type ChatMessage struct {
	ID        string    `json:"id" bson:"id"`
	Content   string    `json:"content" bson:"content"`
	Sender    Sender    `json:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// AssessmentRecord is a completed assessment as persisted.
// Answers keep the wire form the client submitted.
type AssessmentRecord struct {
	ID         string         `json:"id,omitempty" bson:"-"`
	UserID     string         `json:"userId" bson:"userId"`
	UserEmail  string         `json:"userEmail" bson:"userEmail"`
	Answers    map[string]any `json:"answers" bson:"answers"`
	CareerPath string         `json:"careerPath" bson:"careerPath"`
	Timestamp  time.Time      `json:"timestamp" bson:"timestamp"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// ChatSessionRecord is the latest full transcript of a chat session.
// Each save replaces the whole document keyed by SessionID.
type ChatSessionRecord struct {
	SessionID string        `json:"sessionId" bson:"sessionId"`
	UserID    string        `json:"userId" bson:"userId"`
	UserEmail string        `json:"userEmail" bson:"userEmail"`
	Messages  []ChatMessage `json:"messages" bson:"messages"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// LearningProgressRecord tracks one user's interaction with one resource,
// keyed by (UserID, ResourceID).
type LearningProgressRecord struct {
	UserID       string    `json:"userId" bson:"userId"`
	UserEmail    string    `json:"userEmail" bson:"userEmail"`
	ResourceID   string    `json:"resourceId" bson:"resourceId"`
	ResourceType string    `json:"resourceType" bson:"resourceType"`
	Title        string    `json:"title" bson:"title"`
	URL          string    `json:"url" bson:"url"`
	Completed    bool      `json:"completed" bson:"completed"`
	ViewedAt     time.Time `json:"viewedAt" bson:"viewedAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserStats holds per-user record counts
type UserStats struct {
	AssessmentCount      int64 `json:"assessmentCount"`
	ChatSessionCount     int64 `json:"chatSessionCount"`
	ResourcesViewedCount int64 `json:"resourcesViewedCount"`
}

// UserAggregate is a computed summary of a user's stored history
type UserAggregate struct {
	LatestAssessment *AssessmentRecord `json:"latestAssessment"`
	Stats            UserStats         `json:"stats"`
}
