package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/validator"
)

// Message roles accepted by the chat endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversation turn.
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	MessageID string         `json:"message_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Store keeps per-session conversation history in Redis. Each session is a
// list key trimmed to the most recent limit messages and refreshed with the
// configured TTL on every append.
type Store struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

// NewStore creates a conversation history store. limit <= 0 disables
// trimming; ttl <= 0 disables expiry.
func NewStore(client *redis.Client, limit int, ttl time.Duration) *Store {
	return &Store{
		client: client,
		limit:  limit,
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return "chat:history:" + sessionID
}

// Append records a message and returns its generated id.
func (s *Store) Append(ctx context.Context, sessionID, role, content string) (string, error) {
	if err := validator.ValidateNonEmpty(sessionID, "session_id"); err != nil {
		return "", err
	}
	if err := validator.ValidateOneOf(role, []string{RoleUser, RoleAssistant, RoleSystem}, "role"); err != nil {
		return "", err
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		MessageID: uuid.NewString(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "marshaling chat message")
	}

	pipe := s.client.Pipeline()
	key := sessionKey(sessionID)
	pipe.RPush(ctx, key, data)
	if s.limit > 0 {
		pipe.LTrim(ctx, key, int64(-s.limit), -1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeExternal, "storing chat message")
	}

	return msg.MessageID, nil
}

// Recent returns up to n most recent messages in chronological order.
// n <= 0 returns the full retained window.
func (s *Store) Recent(ctx context.Context, sessionID string, n int) ([]Message, error) {
	if err := validator.ValidateNonEmpty(sessionID, "session_id"); err != nil {
		return nil, err
	}

	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}

	raw, err := s.client.LRange(ctx, sessionKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeExternal, "reading chat history")
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Clear removes a session's history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := validator.ValidateNonEmpty(sessionID, "session_id"); err != nil {
		return err
	}
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "clearing chat history")
	}
	return nil
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
