package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// StorageKey is the key the conversation is mirrored under.
const StorageKey = "chatbot_messages"

type messageJSON struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one customer's conversation with the support bot.
type Session struct {
	// writeMu keeps history writes in append order.
	writeMu sync.Mutex

	mu       sync.Mutex
	messages []domain.ChatMessage
	open     bool

	kv    port.KeyValueStore
	asker Asker
	now   func() time.Time
	log   *zap.Logger
}

type SessionOption func(*Session)

func WithSessionLogger(log *zap.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession restores the conversation from kv. Missing or malformed history
// starts an empty conversation.
func NewSession(ctx context.Context, kv port.KeyValueStore, asker Asker, opts ...SessionOption) *Session {
	s := &Session{
		kv:    kv,
		asker: asker,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.messages = s.hydrate(ctx)

	return s
}

func (s *Session) hydrate(ctx context.Context) []domain.ChatMessage {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, port.ErrNotFound) {
			s.log.Warn("chat history unreadable", zap.Error(err))
		}
		return nil
	}

	var raw []messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("chat history malformed", zap.Error(err))
		return nil
	}

	messages := make([]domain.ChatMessage, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, domain.ChatMessage(m))
	}
	return messages
}

// Toggle flips the chat window between open and closed and reports the new state.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = !s.open
	return s.open
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}

func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send records the customer's text, asks for a reply and records it. Blank
// input is ignored and returns an empty reply. The returned error only
// reports persistence failures; the conversation in memory is kept.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	userErr := s.append(ctx, domain.ChatMessage{Text: text, IsUser: true, Timestamp: s.now()})

	reply := s.asker.Ask(ctx, text)

	botErr := s.append(ctx, domain.ChatMessage{Text: reply, IsUser: false, Timestamp: s.now()})

	return reply, errors.Join(userErr, botErr)
}

func (s *Session) append(ctx context.Context, msg domain.ChatMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	raw := make([]messageJSON, 0, len(s.messages))
	for _, m := range s.messages {
		raw = append(raw, messageJSON(m))
	}
	s.mu.Unlock()

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.log.Warn("chat history write failed", zap.Error(err))
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}
