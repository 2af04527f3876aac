package generation

import (
	"context"

	"github.com/go-go-golems/teamchat/pkg/conversation"
)

// Generator produces the assistant reply to history, primed with instruction.
// The last element of history is the message being answered.
type Generator interface {
	Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, instruction string, history []conversation.Message) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error) {
	return f(ctx, instruction, history)
}

// Closer is implemented by generators holding a client connection.
type Closer interface {
	Close() error
}

// Close releases g if it holds resources.
func Close(g Generator) error {
	if c, ok := g.(Closer); ok {
		return c.Close()
	}
	return nil
}
