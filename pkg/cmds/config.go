package cmds

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/teamchat/pkg/generation"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "teamchat"

// Settings gathers everything a command needs to open the store, the persona
// catalog and the generator.
type Settings struct {
	Store        *store.Settings      `yaml:"store"`
	Generation   *generation.Settings `yaml:"generation"`
	PersonasFile string               `yaml:"personas-file,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		Store:      store.NewSettings(),
		Generation: generation.NewSettings(),
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

// InitViper loads the config file and binds the environment and the persistent
// flags of rootCmd. Precedence is flags, then environment, then config file.
func InitViper(rootCmd *cobra.Command, configPath string) error {
	viper.SetEnvPrefix(EnvPrefix)

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.teamchat")

		xdgConfigPath, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(xdgConfigPath, "teamchat"))
		}
	}

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// no config file, flags and environment only
	} else if err != nil {
		return errors.Wrap(err, "could not read config file")
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return viper.BindPFlags(rootCmd.PersistentFlags())
}

// LoadSettings reads the settings from v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	v.SetDefault("temperature", -1)
	ret := NewSettings()

	if backend := v.GetString("store"); backend != "" {
		ret.Store.Backend = store.Backend(backend)
	}
	ret.Store.Path = v.GetString("store-path")
	if slot := v.GetString("slot"); slot != "" {
		ret.Store.Slot = slot
	}

	g := ret.Generation
	if provider := v.GetString("provider"); provider != "" {
		g.Provider = generation.Provider(provider)
	}
	if !g.Provider.IsValid() {
		return nil, errors.Wrapf(generation.ErrUnknownProvider, "provider %q", g.Provider)
	}
	g.Model = v.GetString("model")
	g.APIKey = v.GetString("api-key")
	g.BaseURL = v.GetString("base-url")
	// negative temperature and zero max-tokens leave the provider default
	if t := v.GetFloat64("temperature"); t >= 0 {
		g.Temperature = &t
	}
	if n := v.GetInt("max-tokens"); n > 0 {
		g.MaxTokens = &n
	}
	if timeout := v.GetDuration("timeout"); timeout > 0 {
		g.Timeout = timeout
	}

	ret.PersonasFile = v.GetString("personas-file")

	log.Debug().
		Str("store", string(ret.Store.Backend)).
		Str("slot", ret.Store.Slot).
		Str("provider", string(g.Provider)).
		Str("model", g.Model).
		Msg("Loaded settings")

	return ret, nil
}
