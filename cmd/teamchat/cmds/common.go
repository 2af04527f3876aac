package cmds

import (
	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func openApp(cmd *cobra.Command, options ...cmds.AppOption) (*cmds.App, error) {
	settings, err := cmds.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return cmds.OpenApp(cmd.Context(), settings, options...)
}

// resolvePersona normalizes raw and checks that the catalog knows it.
func resolvePersona(catalog *personas.Catalog, raw string) (string, error) {
	id, err := personas.ParseID(raw)
	if err != nil {
		return "", err
	}
	if _, ok := catalog.Lookup(id); !ok {
		return "", errors.Wrapf(personas.ErrPersonaNotFound, "persona %q (see `teamchat personas`)", raw)
	}
	return id, nil
}
