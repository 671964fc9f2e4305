package chat

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/llm"
	"github.com/jonathan/career-counselor/internal/logger"
	"github.com/jonathan/career-counselor/internal/types"
)

// Saver persists a full transcript.
type Saver interface {
	SaveChatSession(ctx context.Context, user identity.User, sessionID string, messages []types.ChatMessage) (string, error)
}

// Conversation is a client-side transcript with a session id fixed at creation.
//
// Every Append starts an independent save of the whole transcript. Saves are
// not sequenced, so under slow or failing networks an older transcript may
// land after a newer one.
type Conversation struct {
	id    string
	user  identity.User
	saver Saver
	log   *logger.Logger
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	messages []types.ChatMessage
	saves    sync.WaitGroup
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithSaver mirrors the transcript through s after every append.
func WithSaver(s Saver) ConversationOption {
	return func(c *Conversation) { c.saver = s }
}

func WithConversationLogger(l *logger.Logger) ConversationOption {
	return func(c *Conversation) { c.log = l }
}

// WithConversationClock overrides message timestamps.
func WithConversationClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) { c.now = now }
}

// NewConversation starts a transcript for user.
func NewConversation(user identity.User, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		user:  user,
		log:   logger.Nop(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.id = c.newID()
	return c
}

// ID returns the session id.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []types.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// History returns the transcript as model conversation turns.
func (c *Conversation) History() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.Message, 0, len(c.messages))
	for _, m := range c.messages {
		role := llm.RoleUser
		if m.Sender == types.SenderAI {
			role = llm.RoleModel
		}
		out = append(out, llm.Message{Role: role, Text: m.Content})
	}
	return out
}

// Append adds a message and, with a saver, starts a background save of the
// full transcript. It returns without waiting for the save.
func (c *Conversation) Append(ctx context.Context, sender types.Sender, content string) types.ChatMessage {
	msg := types.ChatMessage{
		ID:        c.newID(),
		Content:   content,
		Sender:    sender,
		Timestamp: c.now(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	snapshot := slices.Clone(c.messages)
	c.mu.Unlock()

	if c.saver != nil {
		c.saves.Add(1)
		go c.save(context.WithoutCancel(ctx), snapshot)
	}
	return msg
}

func (c *Conversation) save(ctx context.Context, messages []types.ChatMessage) {
	defer c.saves.Done()
	if _, err := c.saver.SaveChatSession(ctx, c.user, c.id, messages); err != nil {
		c.log.Warn("failed to save chat session", "session_id", c.id, "messages", len(messages), "err", err)
	}
}

// Wait blocks until every started save has finished.
func (c *Conversation) Wait() {
	c.saves.Wait()
}
