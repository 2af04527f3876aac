package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single entry in a persona's conversation. Messages are treated as
// immutable values once created.
//
// Timestamps are kept in UTC at millisecond precision (see Normalize). NewMessage
// does this already; the store normalizes hand-built messages when it records
// them, so they read back with the normalized timestamp.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Role      Role      `json:"role" yaml:"role"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

type MessageOption func(*Message)

func WithID(id string) MessageOption {
	return func(m *Message) {
		m.ID = id
	}
}

func WithTimestamp(t time.Time) MessageOption {
	return func(m *Message) {
		m.Timestamp = Normalize(t)
	}
}

func NewMessage(role Role, content string, options ...MessageOption) Message {
	ret := Message{
		ID:        NewMessageID(),
		Content:   content,
		Role:      role,
		Timestamp: Now(),
	}
	for _, option := range options {
		option(&ret)
	}
	return ret
}

func NewUserMessage(content string, options ...MessageOption) Message {
	return NewMessage(RoleUser, content, options...)
}

func NewAssistantMessage(content string, options ...MessageOption) Message {
	return NewMessage(RoleAssistant, content, options...)
}

// NewMessageID returns a time-ordered identifier, so that ids sort the same way
// messages were created.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Now returns the current time at the precision kept by the persisted document.
func Now() time.Time {
	return Normalize(time.Now())
}

// Normalize drops the monotonic reading and sub-millisecond precision and moves t
// to UTC, which makes a timestamp survive a store round trip unchanged.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (m Message) String() string {
	return fmt.Sprintf("[%s]: %s", m.Role, strings.TrimRight(m.Content, "\n"))
}

// Preview returns at most n runes of the message content, for log lines.
func (m Message) Preview(n int) string {
	r := []rune(m.Content)
	if len(r) <= n {
		return m.Content
	}
	return string(r[:n])
}
