package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/career-counselor/internal/chat"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoClient struct {
	mu       sync.Mutex
	messages []string
	history  [][]llm.Message
}

func (c *echoClient) Chat(_ context.Context, _ string, history []llm.Message, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	c.history = append(c.history, history)
	return "**You said:** " + message, nil
}

func (c *echoClient) Close() error { return nil }

type recordingSaver struct {
	mu    sync.Mutex
	saves [][]types.ChatMessage
}

func (s *recordingSaver) SaveChatSession(_ context.Context, _ identity.User, sessionID string, messages []types.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, messages)
	return sessionID, nil
}

func newTestCounselor(client *echoClient) *chat.Counselor {
	source := config.Static(&config.Config{Gemini: config.Gemini{APIKey: "key"}})
	return chat.NewCounselor(source,
		chat.WithVoice(nil),
		chat.WithClientFactory(func(context.Context, *llm.Config, string) (llm.Client, error) {
			return client, nil
		}),
	)
}

func TestConverse(t *testing.T) {
	client := &echoClient{}
	saver := &recordingSaver{}
	conv := chat.NewConversation(identity.User{ID: "user-1"}, chat.WithSaver(saver))
	var out bytes.Buffer

	err := converse(context.Background(), strings.NewReader("hello\n\nwhat next?\nexit\nignored\n"), &out, newTestCounselor(client), conv, "")
	require.NoError(t, err)
	conv.Wait()

	assert.Equal(t, []string{"hello", "what next?"}, client.messages)
	assert.Empty(t, client.history[0])
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Text: "hello"},
		{Role: llm.RoleModel, Text: "You said: hello"},
	}, client.history[1])

	assert.Contains(t, out.String(), "counselor> You said: what next?")
	assert.Len(t, conv.Messages(), 4)
	assert.Len(t, saver.saves, 4)
}

func TestConverse_Opening(t *testing.T) {
	client := &echoClient{}
	conv := chat.NewConversation(identity.User{})
	var out bytes.Buffer

	err := converse(context.Background(), strings.NewReader(""), &out, newTestCounselor(client), conv, "Tell me about UX")
	require.NoError(t, err)

	assert.Equal(t, []string{"Tell me about UX"}, client.messages)
	assert.Contains(t, out.String(), "you> Tell me about UX")
}
