package generation

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderEcho   Provider = "echo"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderEcho:
		return true
	default:
		return false
	}
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return "gemini-1.5-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3"
	case ProviderEcho:
		return "echo"
	default:
		return ""
	}
}

// APIKeyEnv is the environment variable read when no API key is configured.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

func (p Provider) needsAPIKey() bool {
	return p == ProviderGemini || p == ProviderOpenAI
}

type Settings struct {
	Provider    Provider      `yaml:"provider,omitempty"`
	Model       string        `yaml:"model,omitempty"`
	APIKey      string        `yaml:"api-key,omitempty"`
	BaseURL     string        `yaml:"base-url,omitempty"`
	Temperature *float64      `yaml:"temperature,omitempty"`
	MaxTokens   *int          `yaml:"max-tokens,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Provider: ProviderGemini,
		Timeout:  60 * time.Second,
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

// Resolved returns a copy with the default model and the API key from the
// environment filled in.
func (s *Settings) Resolved() *Settings {
	ret := s.Clone()
	if ret.Provider == "" {
		ret.Provider = ProviderGemini
	}
	if ret.Model == "" {
		ret.Model = ret.Provider.DefaultModel()
	}
	if strings.TrimSpace(ret.APIKey) == "" {
		if env := ret.Provider.APIKeyEnv(); env != "" {
			ret.APIKey = os.Getenv(env)
		}
	}
	return ret
}

func (s *Settings) Validate() error {
	if !s.Provider.IsValid() {
		return errors.Wrapf(ErrUnknownProvider, "provider %q", s.Provider)
	}
	if s.Provider.needsAPIKey() && strings.TrimSpace(s.APIKey) == "" {
		return errors.Wrapf(ErrMissingAPIKey, "provider %s (set %s or --api-key)", s.Provider, s.Provider.APIKeyEnv())
	}
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > 2) {
		return errors.Errorf("temperature %v out of range [0, 2]", *s.Temperature)
	}
	if s.MaxTokens != nil && *s.MaxTokens <= 0 {
		return errors.Errorf("max-tokens must be positive, got %d", *s.MaxTokens)
	}
	return nil
}

func (s *Settings) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}
