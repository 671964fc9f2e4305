package server

import (
	"net/http"
	"time"

	"github.com/jonathan/career-counselor/internal/gateway"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/recommend"
	"github.com/jonathan/career-counselor/internal/server/middleware"
	"github.com/jonathan/career-counselor/internal/types"
)

// SaveAssessmentRequest represents the request body for /save-assessment
type SaveAssessmentRequest struct {
	Answers    map[string]any `json:"answers" validate:"required"`
	CareerPath string         `json:"careerPath,omitempty"`
}

// SaveAssessmentResponse represents the response for /save-assessment
type SaveAssessmentResponse struct {
	Success      bool                   `json:"success"`
	AssessmentID string                 `json:"assessmentId"`
	Data         types.AssessmentRecord `json:"data"`
}

// ChatMessageRequest is one transcript entry in /save-chat-session
type ChatMessageRequest struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Sender    types.Sender `json:"sender" validate:"required,oneof=user ai"`
	Timestamp time.Time    `json:"timestamp"`
}

// SaveChatSessionRequest represents the request body for /save-chat-session
type SaveChatSessionRequest struct {
	SessionID string               `json:"sessionId,omitempty"`
	Messages  []ChatMessageRequest `json:"messages" validate:"dive"`
}

// SaveChatSessionResponse represents the response for /save-chat-session
type SaveChatSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
}

// TrackLearningProgressRequest represents the request body for /track-learning-progress
type TrackLearningProgressRequest struct {
	ResourceID   string `json:"resourceId" validate:"required"`
	ResourceType string `json:"resourceType,omitempty" validate:"omitempty,oneof=course article video"`
	Title        string `json:"title,omitempty"`
	URL          string `json:"url,omitempty"`
	Completed    bool   `json:"completed"`
}

// SuccessResponse is the body of writes that return nothing else
type SuccessResponse struct {
	Success bool `json:"success"`
}

// currentUser returns the user placed in the context by the auth middleware.
func currentUser(r *http.Request) (identity.User, error) {
	user, ok := middleware.GetUser(r)
	if !ok {
		return identity.User{}, identity.ErrUnauthenticated
	}
	return user, nil
}

// handleSaveAssessment inserts a completed assessment. A missing careerPath
// is derived from the answers.
func (s *Server) handleSaveAssessment(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, err, "Unauthorized")
		return
	}

	var req SaveAssessmentRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	careerPath := req.CareerPath
	if careerPath == "" {
		careerPath = recommend.CareerPath(types.ParseResponses(req.Answers))
	}

	rec, err := s.gateway.SaveAssessment(r.Context(), user, req.Answers, careerPath)
	if err != nil {
		s.errorResponse(w, err, "Failed to save assessment")
		return
	}

	s.jsonResponse(w, http.StatusOK, SaveAssessmentResponse{Success: true, AssessmentID: rec.ID, Data: rec})
}

// handleSaveChatSession replaces the stored transcript of a session
func (s *Server) handleSaveChatSession(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, err, "Unauthorized")
		return
	}

	var req SaveChatSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	messages := make([]types.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = types.ChatMessage{ID: m.ID, Content: m.Content, Sender: m.Sender, Timestamp: m.Timestamp}
	}

	sessionID, err := s.gateway.SaveChatSession(r.Context(), user, req.SessionID, messages)
	if err != nil {
		s.errorResponse(w, err, "Failed to save chat session")
		return
	}

	s.jsonResponse(w, http.StatusOK, SaveChatSessionResponse{Success: true, SessionID: sessionID})
}

// handleTrackLearningProgress records a resource view or completion
func (s *Server) handleTrackLearningProgress(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, err, "Unauthorized")
		return
	}

	var req TrackLearningProgressRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	err = s.gateway.TrackLearningProgress(r.Context(), user, gateway.Progress{
		ResourceID:   req.ResourceID,
		ResourceType: req.ResourceType,
		Title:        req.Title,
		URL:          req.URL,
		Completed:    req.Completed,
	})
	if err != nil {
		s.errorResponse(w, err, "Failed to track learning progress")
		return
	}

	s.jsonResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleGetUserData returns the dashboard aggregate. It always answers 200
// for an authenticated caller.
func (s *Server) handleGetUserData(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		s.errorResponse(w, err, "Unauthorized")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.reader.GetUserData(r.Context(), user.ID))
}
