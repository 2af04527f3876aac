package generation

import (
	"context"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI compatible chat completion endpoint.
type OpenAIGenerator struct {
	settings *Settings
	client   *go_openai.Client
}

func NewOpenAIGenerator(settings *Settings) *OpenAIGenerator {
	config := go_openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		config.BaseURL = settings.BaseURL
	}
	return &OpenAIGenerator{
		settings: settings,
		client:   go_openai.NewClientWithConfig(config),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error) {
	if len(history) == 0 {
		return "", failed(ProviderOpenAI, ErrEmptyHistory)
	}
	ctx, cancel := g.settings.withTimeout(ctx)
	defer cancel()

	req := go_openai.ChatCompletionRequest{
		Model:    g.settings.Model,
		Messages: openAIMessages(instruction, history),
	}
	if g.settings.Temperature != nil {
		req.Temperature = float32(*g.settings.Temperature)
	}
	if g.settings.MaxTokens != nil {
		req.MaxTokens = *g.settings.MaxTokens
	}

	log.Debug().
		Str("model", req.Model).
		Int("message_count", len(req.Messages)).
		Msg("Sending chat completion request")

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", failed(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", failed(ProviderOpenAI, errors.New("empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIMessages(instruction string, history []conversation.Message) []go_openai.ChatCompletionMessage {
	ret := make([]go_openai.ChatCompletionMessage, 0, len(history)+1)
	ret = append(ret, go_openai.ChatCompletionMessage{
		Role:    go_openai.ChatMessageRoleSystem,
		Content: instruction,
	})
	for _, m := range history {
		role := go_openai.ChatMessageRoleUser
		if m.Role == conversation.RoleAssistant {
			role = go_openai.ChatMessageRoleAssistant
		}
		ret = append(ret, go_openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return ret
}
