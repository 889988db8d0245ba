// Package commands implements the metaffi-core CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	configcmd "github.com/MetaFFI/plugin-sdk/cmd/metaffi-core/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "metaffi-core",
	Short: "CDTS engine CLI: construct, traverse, and serve the cross-language data model",
	Long: `metaffi-core drives the CDTS (Common Data Types System) engine from the
command line: build an element tree from a JSON description or an
interactive prompt, traverse it through the callback engine, and run a
debug HTTP server exposing Prometheus metrics and a health check.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetConfigFile returns the --config flag's value.
func GetConfigFile() string {
	return cfgFile
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/metaffi-core/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(constructCmd)
	rootCmd.AddCommand(traverseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configcmd.Cmd)
}
