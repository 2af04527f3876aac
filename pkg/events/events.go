package events

import (
	"encoding/json"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeMessageAppended is published after a message was added to the
	// active conversation and the store.
	EventTypeMessageAppended EventType = "message-appended"
	// EventTypeExchangeStarted is published once the user message of an
	// exchange is recorded and generation begins.
	EventTypeExchangeStarted EventType = "exchange-started"
	// EventTypeExchangeFinished is published after the response (or the
	// fallback notice) of an exchange was recorded.
	EventTypeExchangeFinished EventType = "exchange-finished"
)

type EventMetadata struct {
	PersonaID  string    `json:"persona_id"`
	ExchangeID string    `json:"exchange_id,omitempty"`
	Time       time.Time `json:"time"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("persona_id", em.PersonaID)
	if em.ExchangeID != "" {
		e.Str("exchange_id", em.ExchangeID)
	}
	e.Time("time", em.Time)
}

type Event interface {
	Type() EventType
	Metadata() EventMetadata
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta"`
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) Metadata() EventMetadata {
	return e.Metadata_
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

func newMetadata(personaID string, exchangeID string) EventMetadata {
	return EventMetadata{
		PersonaID:  personaID,
		ExchangeID: exchangeID,
		Time:       conversation.Now(),
	}
}

type EventMessageAppended struct {
	EventImpl
	Message conversation.Message `json:"message"`
	// Active is false when the message was stored for a persona that is no
	// longer displayed.
	Active bool `json:"active"`
}

func NewMessageAppendedEvent(personaID string, exchangeID string, message conversation.Message, active bool) *EventMessageAppended {
	return &EventMessageAppended{
		EventImpl: EventImpl{
			Type_:     EventTypeMessageAppended,
			Metadata_: newMetadata(personaID, exchangeID),
		},
		Message: message,
		Active:  active,
	}
}

type EventExchangeStarted struct {
	EventImpl
}

func NewExchangeStartedEvent(personaID string, exchangeID string) *EventExchangeStarted {
	return &EventExchangeStarted{
		EventImpl: EventImpl{
			Type_:     EventTypeExchangeStarted,
			Metadata_: newMetadata(personaID, exchangeID),
		},
	}
}

type EventExchangeFinished struct {
	EventImpl
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewExchangeFinishedEvent(personaID string, exchangeID string, err error) *EventExchangeFinished {
	ret := &EventExchangeFinished{
		EventImpl: EventImpl{
			Type_:     EventTypeExchangeFinished,
			Metadata_: newMetadata(personaID, exchangeID),
		},
	}
	if err != nil {
		ret.Failed = true
		ret.Error = err.Error()
	}
	return ret
}

// NewEventFromJson decodes an event published by a WatermillSink.
func NewEventFromJson(b []byte) (Event, error) {
	var hdr struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(b, &hdr); err != nil {
		return nil, errors.Wrap(err, "could not decode event header")
	}

	var ret Event
	switch hdr.Type {
	case EventTypeMessageAppended:
		ret = &EventMessageAppended{}
	case EventTypeExchangeStarted:
		ret = &EventExchangeStarted{}
	case EventTypeExchangeFinished:
		ret = &EventExchangeFinished{}
	default:
		return nil, errors.Errorf("unknown event type %q", hdr.Type)
	}
	if err := json.Unmarshal(b, ret); err != nil {
		return nil, errors.Wrapf(err, "could not decode %s event", hdr.Type)
	}
	return ret, nil
}
