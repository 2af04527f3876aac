package generation

import (
	"context"
	"strings"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiAcknowledgement is the model turn that follows the persona
// instruction in the chat history sent to Gemini.
const GeminiAcknowledgement = "I understand my role. How can I help you today?"

type GeminiGenerator struct {
	settings *Settings
	client   *genai.Client
}

func NewGeminiGenerator(ctx context.Context, settings *Settings) (*GeminiGenerator, error) {
	opts := []option.ClientOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(settings.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create gemini client")
	}
	return &GeminiGenerator{settings: settings, client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, instruction string, history []conversation.Message) (string, error) {
	if len(history) == 0 {
		return "", failed(ProviderGemini, ErrEmptyHistory)
	}
	ctx, cancel := g.settings.withTimeout(ctx)
	defer cancel()

	model := g.client.GenerativeModel(g.settings.Model)
	if g.settings.Temperature != nil {
		model.SetTemperature(float32(*g.settings.Temperature))
	}
	if g.settings.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*g.settings.MaxTokens))
	}

	cs := model.StartChat()
	cs.History = geminiHistory(instruction, history[:len(history)-1])

	last := history[len(history)-1]
	log.Debug().
		Str("model", g.settings.Model).
		Int("history_length", len(cs.History)).
		Msg("Sending message to gemini")

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", failed(ProviderGemini, err)
	}
	text := geminiResponseText(resp)
	if text == "" {
		return "", failed(ProviderGemini, errors.New("empty response"))
	}
	return text, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func geminiRole(r conversation.Role) string {
	if r == conversation.RoleAssistant {
		return "model"
	}
	return "user"
}

// geminiHistory places the instruction as a user turn acknowledged by the
// model, followed by the earlier messages of the conversation.
func geminiHistory(instruction string, earlier []conversation.Message) []*genai.Content {
	ret := make([]*genai.Content, 0, len(earlier)+2)
	ret = append(ret,
		&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(instruction)}},
		&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(GeminiAcknowledgement)}},
	)
	for _, m := range earlier {
		ret = append(ret, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return ret
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
