package generation

import (
	"context"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
)

// EchoGenerator answers with the content of the last user message. It works
// offline and is used for demos and tests.
type EchoGenerator struct {
	Delay time.Duration
}

func NewEchoGenerator() *EchoGenerator {
	return &EchoGenerator{}
}

func (e *EchoGenerator) Generate(ctx context.Context, _ string, history []conversation.Message) (string, error) {
	var last *conversation.Message
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == conversation.RoleUser {
			last = &history[i]
			break
		}
	}
	if last == nil {
		return "", failed(ProviderEcho, ErrEmptyHistory)
	}

	if e.Delay > 0 {
		t := time.NewTimer(e.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", failed(ProviderEcho, ctx.Err())
		case <-t.C:
		}
	}
	return last.Content, nil
}
