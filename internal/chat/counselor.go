// Package chat runs the counselor conversation: model replies with a plain
// text fallback, optional spoken audio, and a client-side transcript mirrored
// to the store.
package chat

import (
	"context"
	"errors"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/prompts"
	"github.com/jonathan/career-counselor/internal/voice"
)

// Request is one user turn.
type Request struct {
	Message       string
	History       []llm.Message
	GenerateAudio bool
	// Spoken selects the short conversational persona used for voice turns.
	Spoken bool
}

// Reply is the counselor's answer. Degraded is set when the text is the
// fallback message rather than a model reply.
type Reply struct {
	Text         string `json:"response"`
	AudioContent string `json:"audioContent,omitempty"`
	Degraded     bool   `json:"degraded,omitempty"`
}

// Counselor produces replies. The zero value is not usable; use NewCounselor.
type Counselor struct {
	source    config.Source
	newClient llm.Factory
	newEngine voice.EngineFactory
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Counselor.
type Option func(*Counselor)

// WithClientFactory overrides how the generative client is created.
func WithClientFactory(f llm.Factory) Option {
	return func(c *Counselor) { c.newClient = f }
}

// WithVoice enables spoken replies through f. Nil disables audio.
func WithVoice(f voice.EngineFactory) Option {
	return func(c *Counselor) { c.newEngine = f }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Counselor) { c.log = l }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Counselor) { c.metrics = m }
}

// NewCounselor creates a counselor that reads credentials from source on every reply.
func NewCounselor(source config.Source, opts ...Option) *Counselor {
	c := &Counselor{
		source:    source,
		newClient: llm.NewClient,
		newEngine: voice.GoogleFactory,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply answers req. It never fails: upstream problems produce the fallback
// text with Degraded set, and audio problems only drop the audio.
func (c *Counselor) Reply(ctx context.Context, req Request) Reply {
	cfg, err := c.source()
	if err != nil {
		return c.fallback("failed to load configuration", err)
	}
	if cfg.Gemini.APIKey == "" {
		return c.fallback("generative service is not configured", llm.ErrNoAPIKey)
	}

	client, err := c.newClient(ctx, llm.ForSettings(cfg.Gemini), cfg.Gemini.APIKey)
	if err != nil {
		return c.fallback("failed to create chat client", err)
	}
	defer func() { _ = client.Close() }()

	key := prompts.KeySystem
	if req.Spoken {
		key = prompts.KeyVoiceSystem
	}
	system, err := prompts.Get(prompts.Counselor, key)
	if err != nil {
		return c.fallback("failed to load system prompt", err)
	}

	text, err := client.Chat(ctx, system, req.History, req.Message)
	if err != nil {
		return c.fallback("chat request failed", err)
	}

	text = llm.CleanMarkdown(text)
	if text == "" {
		text = prompts.MustGet(prompts.Counselor, prompts.KeyEmptyReply)
	}

	reply := Reply{Text: text}
	if req.GenerateAudio {
		reply.AudioContent = c.speak(ctx, cfg.Gemini.APIKey, text)
	}
	c.metrics.ObserveChatReply(false)
	return reply
}

func (c *Counselor) fallback(msg string, err error) Reply {
	c.log.Warn(msg+", sending fallback reply", "err", err)
	c.metrics.ObserveChatReply(true)
	return Reply{
		Text:     prompts.MustGet(prompts.Counselor, prompts.KeyFallbackReply),
		Degraded: true,
	}
}

// speak returns base64 audio for text, or "" on any failure.
func (c *Counselor) speak(ctx context.Context, apiKey, text string) string {
	if c.newEngine == nil {
		return ""
	}

	s := voice.NewSession(c.newEngine(apiKey), c.log)
	defer func() { _ = s.Close() }()

	if err := s.Open(ctx); err != nil {
		c.log.Warn("speech synthesis unavailable", "err", err)
		return ""
	}
	audio, err := s.Speak(ctx, text)
	if err != nil {
		var apiErr *voice.APICallError
		if errors.As(err, &apiErr) {
			c.log.Warn("speech synthesis failed", "op", apiErr.Op, "err", apiErr.Cause)
		} else {
			c.log.Warn("speech synthesis failed", "err", err)
		}
		return ""
	}
	return audio
}
