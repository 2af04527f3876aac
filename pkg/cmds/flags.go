package cmds

import (
	"github.com/go-go-golems/teamchat/pkg/generation"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/spf13/cobra"
)

// AddPersistentFlags registers the flags shared by every teamchat command.
// Each flag name is also its viper key.
func AddPersistentFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()

	f.String("config", "", "Path to the config file (default: config.yaml in ., $HOME/.teamchat, $XDG_CONFIG_HOME/teamchat)")

	f.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	f.String("log-format", "", "Log format (text or json), defaults to text on a terminal")
	f.String("log-file", "", "Write logs to this file, rotated")
	f.Bool("with-caller", false, "Log the caller of each log line")
	f.Bool("verbose", false, "Log debug output and watermill internals")

	f.String("store", string(store.BackendFile), "Conversation store backend (file, sqlite, bolt, memory)")
	f.String("store-path", "", "Path of the conversation store (default: in the user config directory)")
	f.String("slot", store.DefaultSlot, "Name of the slot holding the conversation document")

	f.String("provider", string(generation.ProviderGemini), "Model provider (gemini, openai, ollama, echo)")
	f.String("model", "", "Model name (default depends on the provider)")
	f.String("api-key", "", "API key (default: GEMINI_API_KEY or OPENAI_API_KEY)")
	f.String("base-url", "", "Base URL of the provider API")
	f.Float64("temperature", -1, "Sampling temperature (negative: provider default)")
	f.Int("max-tokens", 0, "Maximum number of tokens in a reply (0: provider default)")
	f.Duration("timeout", generation.NewSettings().Timeout, "Timeout of one generation call")

	f.String("personas-file", "", "YAML file adding or customizing personas")
}
