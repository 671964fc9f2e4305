package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/career-counselor/internal/assessment"
	"github.com/jonathan/career-counselor/internal/catalog"
	"github.com/jonathan/career-counselor/internal/chat"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/voice"
)

// HistoryPart is one text part of a history turn
type HistoryPart struct {
	Text string `json:"text"`
}

// HistoryTurn is a prior chat turn in the generative service's shape
type HistoryTurn struct {
	Role  string        `json:"role" validate:"required,oneof=user model"`
	Parts []HistoryPart `json:"parts"`
}

// ChatRequest represents the request body for /chat
type ChatRequest struct {
	Message             string        `json:"message" validate:"required"`
	ConversationHistory []HistoryTurn `json:"conversationHistory,omitempty" validate:"dive"`
	GenerateAudio       bool          `json:"generateAudio,omitempty"`
	VoiceMode           bool          `json:"voiceMode,omitempty"`
}

// TranscribeRequest represents the request body for /voice/transcribe
type TranscribeRequest struct {
	Audio           string `json:"audio" validate:"required,base64"`
	Encoding        string `json:"encoding,omitempty"`
	SampleRateHertz int64  `json:"sampleRateHertz,omitempty" validate:"gte=0"`
	// Flow and QuestionID select the question whose options the transcript is matched against.
	Flow       string `json:"flow,omitempty"`
	QuestionID string `json:"questionId,omitempty"`
}

// TranscribeResponse represents the response for /voice/transcribe
type TranscribeResponse struct {
	Transcript string   `json:"transcript"`
	Matches    []string `json:"matches,omitempty"`
}

// handleChat answers one counselor turn. Upstream failures still produce a
// 200 with the fallback reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	reply := s.counselor.Reply(r.Context(), chat.Request{
		Message:       req.Message,
		History:       historyMessages(req.ConversationHistory),
		GenerateAudio: req.GenerateAudio,
		Spoken:        req.VoiceMode,
	})
	s.jsonResponse(w, http.StatusOK, reply)
}

// historyMessages flattens each turn's parts into a single message.
func historyMessages(turns []HistoryTurn) []llm.Message {
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		texts := make([]string, 0, len(t.Parts))
		for _, p := range t.Parts {
			texts = append(texts, p.Text)
		}
		out = append(out, llm.Message{Role: llm.Role(t.Role), Text: strings.Join(texts, "\n")})
	}
	return out
}

// handleTranscribe converts a recorded answer to text and, when a question is
// named, the options it mentions.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err, "Invalid request")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "audio", Message: "base64"}, "Invalid request")
		return
	}

	cfg, err := s.source()
	if err != nil {
		s.errorResponse(w, err, "Failed to load configuration")
		return
	}
	if cfg.Gemini.APIKey == "" {
		s.errorResponse(w, &ErrUnavailable{Service: "speech recognition"}, "Speech recognition is not configured")
		return
	}

	session := voice.NewSession(s.voice(cfg.Gemini.APIKey), s.log)
	defer func() { _ = session.Close() }()

	if err := session.Open(r.Context()); err != nil {
		s.errorResponse(w, &ErrUnavailable{Service: "speech recognition", Cause: err}, "Speech recognition is unavailable")
		return
	}

	transcript, err := session.Transcribe(r.Context(), voice.Clip{
		Audio:           audio,
		Encoding:        req.Encoding,
		SampleRateHertz: req.SampleRateHertz,
	})
	if err != nil {
		var apiErr *voice.APICallError
		if errors.As(err, &apiErr) {
			s.log.Warn("speech recognition failed", "op", apiErr.Op, "err", apiErr.Cause)
			s.jsonResponse(w, http.StatusBadGateway, errorBody{Error: "Speech recognition failed", Details: apiErr.Error()})
			return
		}
		s.errorResponse(w, err, "Speech recognition failed")
		return
	}

	resp := TranscribeResponse{Transcript: transcript}
	if req.QuestionID != "" {
		matches, err := s.matchQuestion(req.Flow, req.QuestionID, transcript)
		if err != nil {
			s.errorResponse(w, err, "Unknown question")
			return
		}
		resp.Matches = matches
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) matchQuestion(flow, questionID, transcript string) ([]string, error) {
	if flow == "" {
		flow = catalog.NameCareer
	}
	c, err := catalog.ByName(flow)
	if err != nil {
		return nil, err
	}
	q, ok := c.Question(questionID)
	if !ok {
		return nil, &ErrValidation{Field: "questionId", Message: "unknown question " + questionID}
	}
	return assessment.MatchOptions(q, transcript), nil
}
