// Package cli implements the themec command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"bennypowers.dev/themec/internal/config"
	"bennypowers.dev/themec/internal/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: themec.{yaml,yml,json,toml} in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

var rootCmd = &cobra.Command{
	Use:   "themec",
	Short: "Compile per-theme stylesheets",
	Long: `themec moves every declaration whose value uses theme-var(NAME) out of
your stylesheets and writes one stylesheet per theme, with each placeholder
replaced by the theme's value for NAME.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.LevelDebug)
		}
	},
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the config named by --config, or the one found in the
// working directory, or falls back to defaults
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if path := config.Find(wd); path != "" {
		log.Debug("Using config %s", path)
		return config.Load(path)
	}

	cfg := config.Default()
	cfg.Dir = wd
	return cfg, nil
}
