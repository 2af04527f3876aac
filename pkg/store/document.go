package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/pkg/errors"
)

// TimestampLayout matches the output of JavaScript's Date.toISOString, which is
// the format existing documents were written with.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampParseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Document is the decoded content of the slot: one conversation per persona id.
type Document map[string]*conversation.Conversation

type wireMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

type wireConversation struct {
	ID        string        `json:"id"`
	TeamID    string        `json:"teamId"`
	Title     *string       `json:"title,omitempty"`
	Messages  []wireMessage `json:"messages"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// DecodeDocument parses the slot content and rebuilds every timestamp as a
// time.Time. Blank content decodes to an empty document.
func DecodeDocument(content string) (Document, error) {
	if strings.TrimSpace(content) == "" {
		return Document{}, nil
	}

	var raw map[string]*wireConversation
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.Wrap(err, "could not parse conversation document")
	}

	doc := make(Document, len(raw))
	for personaID, wc := range raw {
		if wc == nil {
			return nil, errors.Errorf("conversation %q is null", personaID)
		}
		c, err := wc.toConversation(personaID)
		if err != nil {
			return nil, errors.Wrapf(err, "conversation %q", personaID)
		}
		doc[personaID] = c
	}
	return doc, nil
}

// EncodeDocument serializes the whole document.
func EncodeDocument(doc Document) (string, error) {
	raw := make(map[string]*wireConversation, len(doc))
	for personaID, c := range doc {
		if c == nil {
			continue
		}
		raw[personaID] = fromConversation(personaID, c)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", errors.Wrap(err, "could not serialize conversation document")
	}
	return string(b), nil
}

func (wc *wireConversation) toConversation(personaID string) (*conversation.Conversation, error) {
	createdAt, err := ParseTimestamp(wc.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "createdAt")
	}
	updatedAt, err := ParseTimestamp(wc.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "updatedAt")
	}

	c := &conversation.Conversation{
		ID:        personaID,
		PersonaID: personaID,
		Messages:  make([]conversation.Message, 0, len(wc.Messages)),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if wc.Title != nil {
		c.Title = *wc.Title
	}
	for i, wm := range wc.Messages {
		ts, err := ParseTimestamp(wm.Timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d timestamp", i)
		}
		c.Messages = append(c.Messages, conversation.Message{
			ID:        wm.ID,
			Content:   wm.Content,
			Role:      conversation.Role(wm.Role),
			Timestamp: ts,
		})
	}
	return c, nil
}

func fromConversation(personaID string, c *conversation.Conversation) *wireConversation {
	wc := &wireConversation{
		ID:        personaID,
		TeamID:    personaID,
		Messages:  make([]wireMessage, 0, len(c.Messages)),
		CreatedAt: FormatTimestamp(c.CreatedAt),
		UpdatedAt: FormatTimestamp(c.UpdatedAt),
	}
	if c.Title != "" {
		title := c.Title
		wc.Title = &title
	}
	for _, m := range c.Messages {
		wc.Messages = append(wc.Messages, wireMessage{
			ID:        m.ID,
			Content:   m.Content,
			Role:      string(m.Role),
			Timestamp: FormatTimestamp(m.Timestamp),
		})
	}
	return wc
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp turns a serialized date back into a time.Time in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampParseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("invalid timestamp %q", s)
}
