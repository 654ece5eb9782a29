// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docdim CLI. Each subcommand binds
// to one switchboard operation; output is human-readable text or, with
// --json, the canonical JSON shapes.
// Implements: parse_document, analyze_document, validate_document, add_stub,
// resolve_stub, update_stub, calculate_health, find_anchor_matches (CLI surface).
// See DESIGN.md § Operation checklist.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-dimensions/internal/config"
	"github.com/pdiddy/doc-dimensions/internal/logging"
	"github.com/pdiddy/doc-dimensions/internal/repository"
	"github.com/pdiddy/doc-dimensions/internal/switchboard"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docdim CLI.
var rootCmd = &cobra.Command{
	Use:   "docdim",
	Short: "Measure the quality dimensions of Markdown documents",
	Long: `docdim reads the YAML frontmatter of Markdown documents and derives
their quality dimensions: health, usefulness for the intended audience,
freshness, trust, and the remaining work declared by stubs.

Documents are addressed relative to the vault directory (--vault). Stub
commands edit the frontmatter in place and leave the document body
untouched.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./docdim.yaml or ~/.config/docdim/config.yaml)")
	pf.String("vault", ".", "root directory documents are resolved against")
	pf.StringArray("set", nil, "override a calculation setting (path=value, repeatable)")
	pf.Bool("strict-config", false, "reject unknown calculation settings")
	pf.Bool("json", false, "output results as JSON")
	pf.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("vault", pf.Lookup("vault"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docdim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docdim"))
		}
	}

	viper.SetEnvPrefix("DOCDIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// calculationConfig merges the config file's calculation section and the
// --set overrides over the defaults.
func calculationConfig(cmd *cobra.Command) (types.CalculationConfig, error) {
	var layers []config.Layer
	if used := viper.ConfigFileUsed(); used != "" {
		l, err := config.LoadFile(afero.NewOsFs(), used)
		if err != nil {
			return types.CalculationConfig{}, err
		}
		layers = append(layers, l)
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	if len(sets) > 0 {
		l, err := config.ParseOverrides(sets)
		if err != nil {
			return types.CalculationConfig{}, err
		}
		layers = append(layers, l)
	}

	strict, _ := cmd.Flags().GetBool("strict-config")
	return config.Merge(layers, config.Options{Strict: strict})
}

// newSwitchboard builds the switchboard over the vault directory.
func newSwitchboard(cmd *cobra.Command) (*switchboard.Switchboard, error) {
	cfg, err := calculationConfig(cmd)
	if err != nil {
		return nil, err
	}
	return switchboard.New(switchboard.Config{
		Calculation: cfg,
		Repository:  repository.NewDir(viper.GetString("vault")),
	})
}

// newLogger returns the named logger configured by --log-level/--log-format.
func newLogger(name string) (logging.Logger, error) {
	p, err := logging.NewProvider(logging.Config{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	})
	if err != nil {
		return nil, err
	}
	return p.Logger(name), nil
}

// vaultPath converts a command-line path to a vault-relative one.
func vaultPath(arg string) (string, error) {
	if !filepath.IsAbs(arg) {
		return filepath.ToSlash(filepath.Clean(arg)), nil
	}
	root, err := filepath.Abs(viper.GetString("vault"))
	if err != nil {
		return "", fmt.Errorf("resolving vault: %w", err)
	}
	rel, err := filepath.Rel(root, arg)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", arg, err)
	}
	return filepath.ToSlash(rel), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
