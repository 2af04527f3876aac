// Package conversation holds the data model shared by the store and the session
// controller: role-tagged messages and the per-persona conversation record.
//
// A Conversation is keyed by persona id. Its title is derived once from the
// leading text of the first message and never rewritten, and UpdatedAt never
// moves backwards while messages are added.
package conversation

import (
	"time"
)

const (
	TitleMaxLength = 50
	TitleEllipsis  = "…"
)

type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	PersonaID string    `json:"personaId" yaml:"persona_id"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// New creates the record for a persona that has no history yet. The title is
// derived from the first message here and nowhere else, so a record created
// empty stays untitled.
func New(personaID string, messages []Message, now time.Time) *Conversation {
	c := &Conversation{
		ID:        personaID,
		PersonaID: personaID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(messages) > 0 {
		c.Title = DeriveTitle(messages[0].Content)
	}
	c.SetMessages(messages, now)
	return c
}

// SetMessages replaces the message sequence and never touches the title.
func (c *Conversation) SetMessages(messages []Message, now time.Time) {
	c.Messages = append(make([]Message, 0, len(messages)), messages...)
	if now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
}

func (c *Conversation) HasTitle() bool {
	return c.Title != ""
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	ret := *c
	ret.Messages = append(make([]Message, 0, len(c.Messages)), c.Messages...)
	return &ret
}

// LastMessage returns the most recent message, if any.
func (c *Conversation) LastMessage() (Message, bool) {
	if c == nil || len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// DeriveTitle keeps the first TitleMaxLength characters of text and marks the cut
// with TitleEllipsis.
func DeriveTitle(text string) string {
	r := []rune(text)
	if len(r) <= TitleMaxLength {
		return text
	}
	return string(r[:TitleMaxLength]) + TitleEllipsis
}
