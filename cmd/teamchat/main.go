package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-go-golems/teamchat/cmd/teamchat/cmds"
	pcmds "github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "teamchat",
	Short:        "teamchat lets you chat with a team of AI personas",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// reinitialize the logger now that the command line is parsed
		return pcmds.InitLogger(pcmds.LogConfigFromViper(viper.GetViper()))
	},
}

func initRootCmd() error {
	pcmds.AddPersistentFlags(rootCmd)

	// the config file location has to be known before cobra parses the flags
	configPath := ""
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
		} else if strings.HasPrefix(arg, "--config=") {
			configPath = strings.TrimPrefix(arg, "--config=")
		}
	}
	if err := pcmds.InitViper(rootCmd, configPath); err != nil {
		return err
	}
	if err := pcmds.InitLogger(pcmds.LogConfigFromViper(viper.GetViper())); err != nil {
		return err
	}

	log.Debug().Str("config", viper.ConfigFileUsed()).Msg("Loaded configuration")

	rootCmd.AddCommand(
		cmds.NewChatCommand(),
		cmds.NewSendCommand(),
		cmds.NewHistoryCommand(),
		cmds.NewClearCommand(),
		cmds.NewPersonasCommand(),
	)
	return nil
}

func main() {
	err := initRootCmd()
	cobra.CheckErr(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
