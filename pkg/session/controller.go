package session

import (
	"context"
	"strings"
	"sync"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/go-go-golems/teamchat/pkg/events"
	"github.com/go-go-golems/teamchat/pkg/generation"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// FallbackNotice is recorded as the reply when generation fails.
const FallbackNotice = "Sorry, I encountered an error. Please make sure your API key is set up correctly."

var (
	ErrNoPersona       = errors.New("no persona selected")
	ErrUnknownPersona  = errors.New("unknown persona")
	ErrEmptyInput      = errors.New("input is empty")
	ErrExchangePending = errors.New("an exchange is already pending")
	ErrNoGenerator     = errors.New("no generator configured")
)

type State int

const (
	StateIdle State = iota
	StateLoaded
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Instructions resolves the priming instruction of a persona.
type Instructions interface {
	Instruction(personaID string) (string, bool)
}

// Controller drives the live conversation with the active persona.
//
// It keeps the active persona's history in memory and mirrors every message to
// the store. At most one exchange is pending at a time. Switching persona while
// an exchange is pending is allowed: the reply is stored under the persona the
// exchange was submitted to, and shows up in the local history only if that
// persona is active again when it arrives.
type Controller struct {
	store        *store.Store
	instructions Instructions
	generator    generation.Generator
	sink         events.Sink

	mu        sync.Mutex
	personaID string
	history   []conversation.Message
	pending   *Exchange
}

type Option func(*Controller)

func WithSink(sink events.Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// New creates a controller. generator may be nil, in which case every submit
// is rejected with ErrNoGenerator.
func New(s *store.Store, instructions Instructions, generator generation.Generator, options ...Option) *Controller {
	ret := &Controller{
		store:        s,
		instructions: instructions,
		generator:    generator,
		sink:         events.NullSink{},
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.pending != nil:
		return StatePending
	case c.personaID == "":
		return StateIdle
	default:
		return StateLoaded
	}
}

func (c *Controller) PersonaID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.personaID
}

// History returns a copy of the active persona's messages.
func (c *Controller) History() []conversation.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]conversation.Message{}, c.history...)
}

// Pending returns the pending exchange, or nil.
func (c *Controller) Pending() *Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Controller) HasGenerator() bool {
	return c.generator != nil
}

// SelectPersona makes personaID active and loads its history from the store.
func (c *Controller) SelectPersona(ctx context.Context, personaID string) error {
	if _, ok := c.instructions.Instruction(personaID); !ok {
		return ErrUnknownPersona
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.personaID = personaID
	c.history = c.store.GetMessages(ctx, personaID)

	log.Debug().
		Str("persona_id", personaID).
		Int("message_count", len(c.history)).
		Msg("Selected persona")
	return nil
}

// Submit records text as a user message and starts generating the reply.
// Rejected submits return an error and change nothing. Whitespace-only text is
// rejected; other text is recorded as typed.
func (c *Controller) Submit(ctx context.Context, text string) (*Exchange, error) {
	content := text

	c.mu.Lock()
	switch {
	case c.personaID == "":
		c.mu.Unlock()
		return nil, ErrNoPersona
	case strings.TrimSpace(content) == "":
		c.mu.Unlock()
		return nil, ErrEmptyInput
	case c.pending != nil:
		c.mu.Unlock()
		return nil, ErrExchangePending
	case c.generator == nil:
		c.mu.Unlock()
		return nil, ErrNoGenerator
	}

	personaID := c.personaID
	instruction, ok := c.instructions.Instruction(personaID)
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownPersona
	}

	// Both messages are recorded even when the caller's context ends first.
	storeCtx := context.WithoutCancel(ctx)

	request := conversation.NewUserMessage(content)
	c.history = append(c.history, request)
	c.store.AppendMessage(storeCtx, personaID, request)
	history := append([]conversation.Message{}, c.history...)

	runCtx, cancel := context.WithCancel(storeCtx)
	exchange := newExchange(uuid.NewString(), personaID, request, cancel)
	c.pending = exchange
	c.mu.Unlock()

	c.publish(events.NewMessageAppendedEvent(personaID, exchange.ID, request, true))
	c.publish(events.NewExchangeStartedEvent(personaID, exchange.ID))

	log.Debug().
		Str("persona_id", personaID).
		Str("exchange_id", exchange.ID).
		Int("message_count", len(history)).
		Msg("Started exchange")

	go c.run(storeCtx, runCtx, exchange, instruction, history)

	return exchange, nil
}

func (c *Controller) run(
	storeCtx context.Context,
	runCtx context.Context,
	exchange *Exchange,
	instruction string,
	history []conversation.Message,
) {
	text, err := c.generate(runCtx, instruction, history)
	exchange.Cancel()

	var reply conversation.Message
	if err != nil {
		log.Warn().Err(err).
			Str("persona_id", exchange.PersonaID).
			Str("exchange_id", exchange.ID).
			Msg("Generation failed, recording fallback notice")
		reply = conversation.NewAssistantMessage(FallbackNotice)
	} else {
		reply = conversation.NewAssistantMessage(text)
	}

	c.mu.Lock()
	c.store.AppendMessage(storeCtx, exchange.PersonaID, reply)
	active := c.personaID == exchange.PersonaID
	if active {
		c.history = append(c.history, reply)
	}
	c.pending = nil
	c.mu.Unlock()

	c.publish(events.NewMessageAppendedEvent(exchange.PersonaID, exchange.ID, reply, active))
	c.publish(events.NewExchangeFinishedEvent(exchange.PersonaID, exchange.ID, err))

	exchange.setResult(reply, err)
}

// generate turns a panicking generator into a failed exchange.
func (c *Controller) generate(ctx context.Context, instruction string, history []conversation.Message) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("generator panicked: %v", r)
		}
	}()
	return c.generator.Generate(ctx, instruction, history)
}

// ClearHistory removes the active persona's conversation.
func (c *Controller) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.personaID == "" {
		return ErrNoPersona
	}
	if c.pending != nil {
		return ErrExchangePending
	}
	c.store.ClearPersona(ctx, c.personaID)
	c.history = nil
	return nil
}

// Wait blocks until no exchange is pending or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	exchange := c.Pending()
	if exchange == nil {
		return nil
	}
	select {
	case <-exchange.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) publish(event events.Event) {
	if err := c.sink.PublishEvent(event); err != nil {
		log.Warn().Err(err).Str("event_type", string(event.Type())).Msg("Could not publish event")
	}
}
