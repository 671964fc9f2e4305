package server

import (
	"net/http"

	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/recommend"
	"github.com/jonathan/career-counselor/internal/resources"
	"github.com/jonathan/career-counselor/internal/types"
)

// QuestionsResponse represents the response for /questions
type QuestionsResponse struct {
	Flow      string           `json:"flow"`
	Questions []types.Question `json:"questions"`
}

// RecommendRequest represents the request body for /recommend
type RecommendRequest struct {
	Flow    string         `json:"flow,omitempty" validate:"omitempty,oneof=career quick"`
	Answers map[string]any `json:"answers" validate:"required"`
}

// RecommendResponse represents the response for /recommend. Recommendations
// are omitted for the quick flow, which yields a career path only.
type RecommendResponse struct {
	CareerPath      string                 `json:"careerPath"`
	Recommendations []types.Recommendation `json:"recommendations,omitempty"`
}

// handleQuestions returns the question catalog for ?flow= (career by default)
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("flow")
	if flow == "" {
		flow = catalog.NameCareer
	}

	c, err := catalog.ByName(flow)
	if err != nil {
		s.errorResponse(w, err, "Unknown question flow")
		return
	}

	s.jsonResponse(w, http.StatusOK, QuestionsResponse{Flow: c.Name(), Questions: c.Questions()})
}

// handleLearningResources returns the resource set for ?careerPath=
func (s *Server) handleLearningResources(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, resources.ForCareerPath(r.URL.Query().Get("careerPath")))
}

// handleRecommend evaluates answers against the rule table of the requested flow
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	responses := types.ParseResponses(req.Answers)
	if req.Flow == catalog.NameQuick {
		s.jsonResponse(w, http.StatusOK, RecommendResponse{CareerPath: recommend.RecommendPath(responses)})
		return
	}

	recs := recommend.Recommend(responses)
	s.jsonResponse(w, http.StatusOK, RecommendResponse{CareerPath: recs[0].Title, Recommendations: recs})
}
