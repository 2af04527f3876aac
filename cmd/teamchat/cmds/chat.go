package cmds

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/go-go-golems/teamchat/pkg/events"
	"github.com/go-go-golems/teamchat/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func NewChatCommand() *cobra.Command {
	var personaID string
	var glamourStyle string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the personas in an interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			// the UI owns the terminal, logs only go to --log-file
			logConfig := cmds.LogConfigFromViper(viper.GetViper())
			logConfig.FileOnly = true
			if err := cmds.InitLogger(logConfig); err != nil {
				return err
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error().Err(err).Msg("Could not close conversation store")
				}
			}()

			router, err := events.NewEventRouter(
				events.WithVerbose(viper.GetBool("verbose")),
				events.WithBlockingPublish(false),
			)
			if err != nil {
				return err
			}
			defer func() {
				_ = router.Close()
			}()

			controller := app.NewController(router.Sink(events.TopicChat))
			if personaID != "" {
				id, err := resolvePersona(app.Catalog, personaID)
				if err != nil {
					return err
				}
				if err := controller.SelectPersona(cmd.Context(), id); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			model := ui.NewModel(ctx, controller, app.Catalog, ui.WithGlamourStyle(glamourStyle))
			options := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				tty, err := ui.OpenTTY()
				if err != nil {
					return errors.Wrap(err, "stdin is not a terminal and no tty is available")
				}
				defer func() {
					_ = tty.Close()
				}()
				options = append(options, tea.WithInput(tty))
			}
			p := tea.NewProgram(model, options...)

			router.AddEventHandler("ui", events.TopicChat, ui.Forward(p))

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return router.Run(egCtx)
			})
			eg.Go(func() error {
				defer cancel()
				select {
				case <-router.Running():
				case <-egCtx.Done():
					return nil
				}
				_, err := p.Run()
				if errors.Is(err, tea.ErrProgramKilled) {
					return nil
				}
				return err
			})

			err = eg.Wait()

			// replies still in flight are written to the store before exiting
			waitCtx, waitCancel := context.WithTimeout(context.Background(), app.Settings.Generation.Timeout)
			defer waitCancel()
			if werr := controller.Wait(waitCtx); werr != nil {
				log.Warn().Err(werr).Msg("Exited before the pending reply arrived")
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "Persona to start with (default: the first one)")
	cmd.Flags().StringVar(&glamourStyle, "glamour-style", "dark", "Markdown style for replies (dark, light, notty)")

	return cmd
}
