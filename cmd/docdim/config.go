// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-dimensions/internal/schema"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the calculation configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged calculation configuration",
	Long: `Show prints the configuration the other commands calculate with: the
built-in defaults, overlaid by the calculation section of the config file,
overlaid by any --set overrides. Invalid settings are reported with their
paths.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := calculationConfig(cmd)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return writeJSON(os.Stdout, cfg)
		}
		return writeYAML(os.Stdout, map[string]any{"calculation": cfg})
	},
}

var schemaCmd = &cobra.Command{
	Use:       "schema [frontmatter|stubs]",
	Short:     "Print an embedded JSON Schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"frontmatter", "stubs"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var p schema.Provider
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(p.Version())
			return nil
		}
		data := p.FrontmatterSchema()
		if len(args) == 1 && args[0] == "stubs" {
			data = p.StubsSchema()
		}
		_, err := os.Stdout.Write(data)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of docdim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docdim %s (schema %s)\n", version, schema.Version)
	},
}

func init() {
	schemaCmd.Flags().Bool("version", false, "print the schema version only")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd, schemaCmd, versionCmd)
}
