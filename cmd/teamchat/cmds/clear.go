package cmds

import (
	"fmt"

	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [PERSONA]",
		Short: "Delete the conversation with one persona, or all of them with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass either a persona or --all")
			}

			app, err := openApp(cmd, cmds.WithoutGenerator())
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			if all {
				app.Store.ClearAll(cmd.Context())
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cleared all conversations.")
				return err
			}

			id, err := personas.ParseID(args[0])
			if err != nil {
				return err
			}
			app.Store.ClearPersona(cmd.Context(), id)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared the conversation with %s.\n", id)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear every conversation")

	return cmd
}
