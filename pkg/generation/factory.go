package generation

import (
	"context"

	"github.com/rs/zerolog/log"
)

// New creates the generator selected by settings. A missing API key is
// reported as ErrMissingAPIKey.
func New(ctx context.Context, settings *Settings) (Generator, error) {
	s := settings.Resolved()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("provider", string(s.Provider)).
		Str("model", s.Model).
		Str("base_url", s.BaseURL).
		Msg("Creating generator")

	switch s.Provider {
	case ProviderGemini:
		return NewGeminiGenerator(ctx, s)
	case ProviderOpenAI:
		return NewOpenAIGenerator(s), nil
	case ProviderOllama:
		return NewOllamaGenerator(s)
	case ProviderEcho:
		return NewEchoGenerator(), nil
	default:
		return nil, ErrUnknownProvider
	}
}
