package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-go-golems/teamchat/pkg/conversation"
)

var ErrExchangeNil = errors.New("exchange is nil")

// Exchange is one submitted user message waiting for its reply.
//
// It is cancelable and waitable. Cancelling makes the generation fail, so the
// fallback notice is recorded as the reply.
type Exchange struct {
	ID        string
	PersonaID string
	Request   conversation.Message

	done chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	reply  conversation.Message
	err    error
}

func newExchange(id string, personaID string, request conversation.Message, cancel context.CancelFunc) *Exchange {
	return &Exchange{
		ID:        id,
		PersonaID: personaID,
		Request:   request,
		done:      make(chan struct{}),
		cancel:    cancel,
	}
}

func (e *Exchange) setResult(reply conversation.Message, err error) {
	e.mu.Lock()
	e.reply = reply
	e.err = err
	close(e.done)
	e.cancel = nil
	e.mu.Unlock()
}

// Cancel aborts the generation call. It is safe to call multiple times.
func (e *Exchange) Cancel() {
	if e == nil {
		return
	}
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once the reply has been recorded.
func (e *Exchange) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the reply is recorded. The error reports a generation
// failure; the returned message is then the fallback notice.
func (e *Exchange) Wait() (conversation.Message, error) {
	if e == nil {
		return conversation.Message{}, ErrExchangeNil
	}
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reply, e.err
}

func (e *Exchange) IsRunning() bool {
	if e == nil {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}
