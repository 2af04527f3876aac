package cmds

import (
	"fmt"
	"text/tabwriter"

	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewPersonasCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "List the personas you can chat with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, cmds.WithoutGenerator())
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			list := app.Catalog.List()
			w := cmd.OutOrStdout()
			switch output {
			case "json":
				return writeJSON(w, list)
			case "yaml":
				return yaml.NewEncoder(w).Encode(list)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tBUILT-IN\tDESCRIPTION")
			for _, p := range list {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", p.ID, p.Name, p.IsBuiltIn, p.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, yaml)")

	return cmd
}
