// Package config implements the "metaffi-core config" command group:
// init, validate, and schema.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the "config" command group, added to the root command.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the engine configuration file",
}

func init() {
	Cmd.AddCommand(initCmd, validateCmd, schemaCmd)
}
