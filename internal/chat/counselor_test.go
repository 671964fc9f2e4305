package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fallbackText = "I'm having trouble responding right now. Please try again in a moment."
	emptyText    = "I'm sorry, I couldn't generate a response. Please try again."
)

type fakeClient struct {
	reply   string
	err     error
	system  string
	history []llm.Message
	message string
	closed  bool
}

func (f *fakeClient) Chat(_ context.Context, system string, history []llm.Message, message string) (string, error) {
	f.system, f.history, f.message = system, history, message
	return f.reply, f.err
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type fakeEngine struct {
	openErr  error
	audio    string
	ttsErr   error
	spoken   []string
	disposed bool
}

func (f *fakeEngine) Open(context.Context) error { return f.openErr }

func (f *fakeEngine) Transcribe(context.Context, voice.Clip) (string, error) { return "", nil }

func (f *fakeEngine) Synthesize(_ context.Context, text string) (string, error) {
	f.spoken = append(f.spoken, text)
	return f.audio, f.ttsErr
}

func (f *fakeEngine) Close() error {
	f.disposed = true
	return nil
}

func withKey(key, model string) config.Source {
	return config.Static(&config.Config{Gemini: config.Gemini{APIKey: key, Model: model}})
}

func factoryFor(c *fakeClient, gotModel *string) llm.Factory {
	return func(_ context.Context, cfg *llm.Config, apiKey string) (llm.Client, error) {
		if gotModel != nil {
			*gotModel = cfg.Model
		}
		return c, nil
	}
}

func TestReply_CleansModelText(t *testing.T) {
	client := &fakeClient{reply: "## Next steps\n* Learn **Go**\n* Build *projects*"}
	var model string
	c := NewCounselor(withKey("k", "gemini-custom"), WithClientFactory(factoryFor(client, &model)), WithVoice(nil))

	history := []llm.Message{{Role: llm.RoleUser, Text: "hi"}, {Role: llm.RoleModel, Text: "hello"}}
	reply := c.Reply(context.Background(), Request{Message: "What next?", History: history})

	assert.Equal(t, "Next steps\n• Learn Go\n• Build projects", reply.Text)
	assert.False(t, reply.Degraded)
	assert.Empty(t, reply.AudioContent)

	assert.Equal(t, "What next?", client.message)
	assert.Equal(t, history, client.history)
	assert.Contains(t, client.system, "career counselor")
	assert.Equal(t, "gemini-custom", model)
	assert.True(t, client.closed)
}

func TestReply_DefaultModel(t *testing.T) {
	var model string
	c := NewCounselor(withKey("k", ""), WithClientFactory(factoryFor(&fakeClient{reply: "ok"}, &model)))
	c.Reply(context.Background(), Request{Message: "hi"})
	assert.Equal(t, llm.DefaultModel, model)
}

func TestReply_SpokenPersona(t *testing.T) {
	client := &fakeClient{reply: "Sure!"}
	c := NewCounselor(withKey("k", ""), WithClientFactory(factoryFor(client, nil)), WithVoice(nil))

	c.Reply(context.Background(), Request{Message: "hi", Spoken: true})

	assert.Contains(t, client.system, "CareerGuide")
}

func TestReply_EmptyModelText(t *testing.T) {
	c := NewCounselor(withKey("k", ""), WithClientFactory(factoryFor(&fakeClient{reply: "  "}, nil)))

	reply := c.Reply(context.Background(), Request{Message: "hi"})
	assert.Equal(t, emptyText, reply.Text)
	assert.False(t, reply.Degraded)
}

func TestReply_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		source  config.Source
		factory llm.Factory
	}{
		{
			name:    "missing api key",
			source:  withKey("", ""),
			factory: factoryFor(&fakeClient{reply: "unused"}, nil),
		},
		{
			name:    "config error",
			source:  func() (*config.Config, error) { return nil, errors.New("bad env") },
			factory: factoryFor(&fakeClient{reply: "unused"}, nil),
		},
		{
			name:   "client creation fails",
			source: withKey("k", ""),
			factory: func(context.Context, *llm.Config, string) (llm.Client, error) {
				return nil, errors.New("dial failed")
			},
		},
		{
			name:    "upstream error",
			source:  withKey("k", ""),
			factory: factoryFor(&fakeClient{err: errors.New("503")}, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{audio: "YXVkaW8="}
			c := NewCounselor(tt.source, WithClientFactory(tt.factory), WithVoice(func(string) voice.Engine { return engine }))

			reply := c.Reply(context.Background(), Request{Message: "hi", GenerateAudio: true})
			assert.Equal(t, fallbackText, reply.Text)
			assert.True(t, reply.Degraded)
			assert.Empty(t, reply.AudioContent)
			assert.Empty(t, engine.spoken)
		})
	}
}

func TestReply_Audio(t *testing.T) {
	engine := &fakeEngine{audio: "YXVkaW8="}
	var gotKey string
	c := NewCounselor(withKey("k", ""),
		WithClientFactory(factoryFor(&fakeClient{reply: "Try a bootcamp."}, nil)),
		WithVoice(func(apiKey string) voice.Engine {
			gotKey = apiKey
			return engine
		}),
	)

	reply := c.Reply(context.Background(), Request{Message: "hi", GenerateAudio: true})
	assert.Equal(t, "Try a bootcamp.", reply.Text)
	assert.Equal(t, "YXVkaW8=", reply.AudioContent)
	assert.Equal(t, []string{"Try a bootcamp."}, engine.spoken)
	assert.Equal(t, "k", gotKey)
	assert.True(t, engine.disposed)
}

func TestReply_AudioFailureIsSwallowed(t *testing.T) {
	tests := []struct {
		name   string
		engine *fakeEngine
	}{
		{name: "open fails", engine: &fakeEngine{openErr: errors.New("no service")}},
		{name: "synthesis fails", engine: &fakeEngine{ttsErr: &voice.APICallError{Op: "synthesize", Message: "quota"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCounselor(withKey("k", ""),
				WithClientFactory(factoryFor(&fakeClient{reply: "Hello"}, nil)),
				WithVoice(func(string) voice.Engine { return tt.engine }),
			)

			reply := c.Reply(context.Background(), Request{Message: "hi", GenerateAudio: true})
			require.Equal(t, "Hello", reply.Text)
			assert.False(t, reply.Degraded)
			assert.Empty(t, reply.AudioContent)
			assert.True(t, tt.engine.disposed)
		})
	}
}
