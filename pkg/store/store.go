package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/rs/zerolog/log"
)

// Store maps persona ids to their conversation and persists the whole mapping as
// one document in a Medium.
//
// Every operation reads the full document, applies its change and writes the
// full document back. Reads never fail: a document that cannot be decoded is
// treated as an empty store, which drops the history of every persona. Write
// failures are logged and swallowed, so the caller's in-memory view may run ahead
// of what is persisted.
//
// A Store serialises its own operations. Nothing coordinates two Store values
// (or two processes) sharing the same slot.
type Store struct {
	mu     sync.Mutex
	medium Medium
	now    func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(medium Medium, options ...Option) *Store {
	ret := &Store{
		medium: medium,
		now:    conversation.Now,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// NewInMemory returns a store backed by a fresh MemoryMedium.
func NewInMemory(options ...Option) *Store {
	return New(NewMemoryMedium(), options...)
}

func (s *Store) Medium() Medium {
	return s.medium
}

// GetMessages returns the messages stored for personaID, or an empty slice.
func (s *Store) GetMessages(ctx context.Context, personaID string) []conversation.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.loadLocked(ctx)[personaID]
	if !ok || c == nil {
		return []conversation.Message{}
	}
	return c.Clone().Messages
}

// GetConversation returns the full record for personaID.
func (s *Store) GetConversation(ctx context.Context, personaID string) (*conversation.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.loadLocked(ctx)[personaID]
	if !ok || c == nil {
		return nil, false
	}
	return c.Clone(), true
}

// SetMessages replaces the message sequence of personaID, creating the
// conversation if needed.
func (s *Store) SetMessages(ctx context.Context, personaID string, messages []conversation.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked(ctx)
	s.setLocked(doc, personaID, messages)
	s.saveLocked(ctx, doc)
}

// AppendMessage adds message at the end of personaID's conversation.
func (s *Store) AppendMessage(ctx context.Context, personaID string, message conversation.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked(ctx)
	var existing []conversation.Message
	if c, ok := doc[personaID]; ok && c != nil {
		existing = c.Messages
	}
	messages := make([]conversation.Message, 0, len(existing)+1)
	messages = append(messages, existing...)
	messages = append(messages, message)

	s.setLocked(doc, personaID, messages)
	if !s.saveLocked(ctx, doc) {
		return
	}

	log.Debug().
		Str("persona_id", personaID).
		Str("message_id", message.ID).
		Str("role", string(message.Role)).
		Int("message_count", len(messages)).
		Msg("Appended message")
}

// ListPersonasWithHistory returns every persona id present in the store, sorted.
// Personas whose conversation holds no message are included.
func (s *Store) ListPersonasWithHistory(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked(ctx)
	ret := make([]string, 0, len(doc))
	for personaID := range doc {
		ret = append(ret, personaID)
	}
	sort.Strings(ret)
	return ret
}

// ClearAll removes every conversation.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.medium.Remove(ctx); err != nil {
		log.Error().Err(err).Msg("Could not clear conversation store")
		return
	}
	log.Debug().Msg("Cleared all conversations")
}

// ClearPersona removes the conversation of personaID. Clearing a persona without
// history leaves the document untouched.
func (s *Store) ClearPersona(ctx context.Context, personaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked(ctx)
	if _, ok := doc[personaID]; !ok {
		return
	}
	delete(doc, personaID)
	if !s.saveLocked(ctx, doc) {
		return
	}
	log.Debug().Str("persona_id", personaID).Msg("Cleared conversation")
}

func (s *Store) Close() error {
	return s.medium.Close()
}

// setLocked stores messages with their timestamps normalized, so that what a
// caller reads back does not depend on whether the document was reloaded.
func (s *Store) setLocked(doc Document, personaID string, messages []conversation.Message) {
	normalized := make([]conversation.Message, len(messages))
	for i, m := range messages {
		m.Timestamp = conversation.Normalize(m.Timestamp)
		normalized[i] = m
	}
	messages = normalized

	now := s.now()
	if c, ok := doc[personaID]; ok && c != nil {
		c.SetMessages(messages, now)
		return
	}
	doc[personaID] = conversation.New(personaID, messages, now)
}

func (s *Store) loadLocked(ctx context.Context) Document {
	content, ok, err := s.medium.Read(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Could not read conversation store, using an empty store")
		return Document{}
	}
	if !ok {
		return Document{}
	}

	doc, err := DecodeDocument(content)
	if err != nil {
		log.Warn().Err(err).Msg("Conversation store is corrupt, history of all personas is ignored")
		return Document{}
	}
	return doc
}

// saveLocked reports whether doc reached the medium.
func (s *Store) saveLocked(ctx context.Context, doc Document) bool {
	content, err := EncodeDocument(doc)
	if err != nil {
		log.Error().Err(err).Msg("Could not serialize conversation store")
		return false
	}
	if err := s.medium.Write(ctx, content); err != nil {
		log.Error().Err(err).Int("conversation_count", len(doc)).Msg("Could not write conversation store")
		return false
	}
	return true
}
