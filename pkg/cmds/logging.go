package cmds

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	WithCaller bool
	Level      string
	LogFormat  string
	LogFile    string
	// FileOnly keeps stderr free for a full screen UI.
	FileOnly bool
}

// LogConfigFromViper reads the log-* keys.
func LogConfigFromViper(v *viper.Viper) *LogConfig {
	level := v.GetString("log-level")
	if v.GetBool("verbose") && level != "trace" {
		level = "debug"
	}
	return &LogConfig{
		Level:      level,
		LogFile:    v.GetString("log-file"),
		LogFormat:  v.GetString("log-format"),
		WithCaller: v.GetBool("with-caller"),
	}
}

// InitLogger configures the global zerolog logger.
func InitLogger(config *LogConfig) error {
	level := zerolog.InfoLevel
	if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", config.Level)
		}
	}
	zerolog.SetGlobalLevel(level)

	format := config.LogFormat
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "text"
		}
	}

	var writers []io.Writer
	if !config.FileOnly {
		switch format {
		case "text":
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
		case "json":
			writers = append(writers, os.Stderr)
		default:
			return errors.Errorf("invalid log format %q", format)
		}
	}

	if config.LogFile != "" {
		writers = append(writers, zerolog.ConsoleWriter{
			NoColor: true,
			Out: &lumberjack.Logger{
				Filename:   config.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			},
		})
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	logger := zerolog.New(w).With().Timestamp()
	if config.WithCaller {
		logger = logger.Caller()
	}
	log.Logger = logger.Logger()

	return nil
}
