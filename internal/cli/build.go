package cli

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/themec/internal/build"
	"bennypowers.dev/themec/internal/config"
	"bennypowers.dev/themec/internal/log"
	"github.com/spf13/cobra"
)

// ErrStrict is returned by a --strict build that had diagnostics or
// failures
var ErrStrict = errors.New("strict build failed")

var (
	buildOutDir          string
	buildThemes          []string
	buildWatch           bool
	buildStrict          bool
	buildEmitRemainder   bool
	buildNormalizeColors bool
	buildConcurrency     int
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "", "output directory")
	buildCmd.Flags().StringArrayVarP(&buildThemes, "theme", "t", nil, "theme as name=path (repeatable, replaces configured themes)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild on changes")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "fail on any diagnostic or theme error")
	buildCmd.Flags().BoolVar(&buildEmitRemainder, "emit-remainder", false, "write each stylesheet without its themeable declarations")
	buildCmd.Flags().BoolVar(&buildNormalizeColors, "normalize-colors", false, "write substituted colors as hex")
	buildCmd.Flags().IntVarP(&buildConcurrency, "concurrency", "j", 0, "parallel workers (default GOMAXPROCS)")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build theme stylesheets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyBuildFlags(cmd, cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		builder := build.New(cfg)
		if buildWatch {
			return builder.Watch(cmd.Context(), build.DefaultDebounce, func(report *build.Report) {
				summarize(report)
			})
		}

		report, err := builder.Build(cmd.Context())
		if err != nil {
			return err
		}
		summarize(report)
		return checkStrict(report, buildStrict)
	},
}

// applyBuildFlags overrides config values with the flags that were set
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutDir = buildOutDir
	}
	if flags.Changed("emit-remainder") {
		cfg.EmitRemainder = buildEmitRemainder
	}
	if flags.Changed("normalize-colors") {
		cfg.NormalizeColors = buildNormalizeColors
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = buildConcurrency
	}
	if len(buildThemes) > 0 {
		themes, err := parseThemes(buildThemes)
		if err != nil {
			return err
		}
		cfg.Themes = themes
	}
	return nil
}

// parseThemes reads name=path pairs
func parseThemes(pairs []string) (map[string]string, error) {
	themes := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("%w: --theme %q is not name=path", config.ErrInvalidConfig, pair)
		}
		themes[name] = path
	}
	return themes, nil
}

func summarize(report *build.Report) {
	written := 0
	for _, t := range report.Themes {
		if t.Err == nil {
			written++
		}
	}
	log.Info("Built %d of %d themes from %d stylesheets (%d themeable, %d diagnostics)",
		written, len(report.Themes), report.Units, report.Partials, len(report.Diagnostics()))
}

func checkStrict(report *build.Report, strict bool) error {
	if !strict {
		return nil
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStrict, err)
	}
	if n := len(report.Diagnostics()); n > 0 {
		return fmt.Errorf("%w: %d diagnostics", ErrStrict, n)
	}
	return nil
}
