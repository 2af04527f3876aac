package generation

import (
	"context"
	"os"
	"strings"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type OllamaGenerator struct {
	settings *Settings
	client   *api.Client
}

// NewOllamaGenerator connects to the host in OLLAMA_HOST. A configured base
// URL takes precedence.
func NewOllamaGenerator(settings *Settings) (*OllamaGenerator, error) {
	if settings.BaseURL != "" {
		if err := os.Setenv("OLLAMA_HOST", settings.BaseURL); err != nil {
			return nil, errors.Wrap(err, "could not set ollama host")
		}
	}
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "could not create ollama client")
	}
	return &OllamaGenerator{settings: settings, client: client}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error) {
	if len(history) == 0 {
		return "", failed(ProviderOllama, ErrEmptyHistory)
	}
	ctx, cancel := g.settings.withTimeout(ctx)
	defer cancel()

	stream := false
	req := &api.ChatRequest{
		Model:    g.settings.Model,
		Messages: ollamaMessages(instruction, history),
		Stream:   &stream,
		Options:  ollamaOptions(g.settings),
	}

	log.Debug().
		Str("model", req.Model).
		Int("message_count", len(req.Messages)).
		Msg("Sending ollama chat request")

	var sb strings.Builder
	err := g.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", failed(ProviderOllama, err)
	}
	if sb.Len() == 0 {
		return "", failed(ProviderOllama, errors.New("empty response"))
	}
	return sb.String(), nil
}

func ollamaMessages(instruction string, history []conversation.Message) []api.Message {
	ret := make([]api.Message, 0, len(history)+1)
	ret = append(ret, api.Message{Role: "system", Content: instruction})
	for _, m := range history {
		role := "user"
		if m.Role == conversation.RoleAssistant {
			role = "assistant"
		}
		ret = append(ret, api.Message{Role: role, Content: m.Content})
	}
	return ret
}

func ollamaOptions(s *Settings) map[string]interface{} {
	ret := map[string]interface{}{}
	if s.Temperature != nil {
		ret["temperature"] = *s.Temperature
	}
	if s.MaxTokens != nil {
		ret["num_predict"] = *s.MaxTokens
	}
	return ret
}
