package cli

import (
	"fmt"

	"bennypowers.dev/themec/internal/build"
	"bennypowers.dev/themec/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	resolvePrefix       string
	resolveRootSelector string
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolvePrefix, "prefix", "", "CSS variable prefix for design token sources")
	resolveCmd.Flags().StringVar(&resolveRootSelector, "root-selector", "", "selector CSS sources declare variables under (default :root)")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <theme-source>",
	Short: "Print the resolved variables of a theme source",
	Long:  "Read a theme source (.css, .json, .yaml) and print every variable with its final value, in declaration order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := build.LoadVariables(args[0], build.SourceOptions{
			RootSelector: resolveRootSelector,
			TokenPrefix:  resolvePrefix,
		})
		if err != nil {
			return err
		}

		resolved, err := resolver.Resolve(table)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range resolved.Names() {
			value, _ := resolved.Lookup(name)
			fmt.Fprintf(out, "%s: %s\n", name, value)
		}
		return nil
	},
}
