package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MetaFFI/plugin-sdk/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `validate loads the configuration file (or the default config, if no
file exists) and checks it against the engine's struct-tag validation rules:
log level/format, metrics port range, engine buffer pool sizes.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	displayPath := path
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Validation: OK")
	fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration summary:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Log level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(cmd.OutOrStdout(), "  Log format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(cmd.OutOrStdout(), "  Metrics enabled:      %t\n", cfg.Metrics.Enabled)
	fmt.Fprintf(cmd.OutOrStdout(), "  Fast path threshold:  %d\n", cfg.Engine.FastPathThreshold)
	fmt.Fprintf(cmd.OutOrStdout(), "  Buffer pool (S/M/L):  %d/%d/%d bytes\n",
		cfg.Engine.BufferPool.SmallSize, cfg.Engine.BufferPool.MediumSize, cfg.Engine.BufferPool.LargeSize)
	if cfg.Runtimes.OverlayPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Runtime overlay:      %s\n", cfg.Runtimes.OverlayPath)
	}

	return nil
}
