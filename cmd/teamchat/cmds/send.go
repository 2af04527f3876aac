package cmds

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewSendCommand() *cobra.Command {
	var personaID string
	var raw bool

	cmd := &cobra.Command{
		Use:   "send --persona ID TEXT...",
		Short: "Send one message to a persona and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, cmds.RequireGenerator())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error().Err(err).Msg("Could not close conversation store")
				}
			}()

			id, err := resolvePersona(app.Catalog, personaID)
			if err != nil {
				return err
			}

			controller := app.NewController(nil)
			if err := controller.SelectPersona(cmd.Context(), id); err != nil {
				return err
			}
			exchange, err := controller.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			select {
			case <-exchange.Done():
			case <-cmd.Context().Done():
				exchange.Cancel()
			}
			reply, genErr := exchange.Wait()
			if err := printReply(cmd.OutOrStdout(), reply.Content, raw); err != nil {
				return err
			}
			if genErr != nil {
				return errors.Wrap(genErr, "no reply")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "Persona to talk to")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the reply without markdown rendering")
	_ = cmd.MarkFlagRequired("persona")

	return cmd
}

func printReply(w io.Writer, content string, raw bool) error {
	if !raw {
		rendered, err := glamour.Render(content, "auto")
		if err == nil {
			content = rendered
		} else {
			log.Debug().Err(err).Msg("Could not render markdown")
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(content, "\n"))
	return err
}
