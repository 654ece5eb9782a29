// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-dimensions/internal/batch"
	"github.com/pdiddy/doc-dimensions/internal/engine"
	"github.com/pdiddy/doc-dimensions/internal/switchboard"
)

// --- parse ---

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Decode a document's frontmatter into its properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	sb, text, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	props, err := sb.ParseDocument(text)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, props)
	}
	return writeYAML(os.Stdout, props)
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Derive quality dimensions and warnings for documents",
	Long: `Analyze decodes each document and reports health, usefulness,
freshness, trust, and the stub vector physics, followed by any warnings.

With a single path the full analysis is printed. With several paths, or
with --glob, documents are analyzed concurrently and one line is printed
per document; failures are counted and the run continues.

Freshness uses --days when given, otherwise the file's modification time.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sb, err := newSwitchboard(cmd)
	if err != nil {
		return err
	}
	opts := analyzeOptions(cmd)

	paths, err := documentPaths(cmd, sb, args)
	if err != nil {
		return err
	}
	glob, _ := cmd.Flags().GetString("glob")
	if len(paths) == 1 && glob == "" {
		a, err := sb.AnalyzeFile(paths[0], opts)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return writeJSON(os.Stdout, a)
		}
		fmt.Fprintf(os.Stdout, "%s\n\n", paths[0])
		writeDimensions(os.Stdout, a.Dimensions)
		writeWarnings(os.Stdout, a.Warnings)
		return nil
	}

	log, err := newLogger("batch")
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")
	bopts := batch.Options{Workers: workers, Analyze: opts, Logger: log, Out: os.Stdout}
	if jsonOutput(cmd) {
		bopts.Out = nil
	}
	summary, err := batch.Run(context.Background(), sb, paths, bopts)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		if err := writeJSON(os.Stdout, summary); err != nil {
			return err
		}
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed analysis", summary.Failed)
	}
	return nil
}

func analyzeOptions(cmd *cobra.Command) switchboard.AnalyzeOptions {
	var opts switchboard.AnalyzeOptions
	if cmd.Flags().Changed("days") {
		days, _ := cmd.Flags().GetFloat64("days")
		opts.DaysSinceUpdate = &days
	}
	opts.Strict, _ = cmd.Flags().GetBool("strict")
	return opts
}

// documentPaths returns the vault-relative paths named by args and --glob.
func documentPaths(cmd *cobra.Command, sb *switchboard.Switchboard, args []string) ([]string, error) {
	var paths []string
	for _, a := range args {
		p, err := vaultPath(a)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if glob, _ := cmd.Flags().GetString("glob"); glob != "" {
		matched, err := sb.ListDocuments(glob)
		if err != nil {
			return nil, err
		}
		paths = append(paths, matched...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no documents: provide paths or --glob")
	}
	return paths, nil
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a document's frontmatter against the schema",
	Long: `Validate reports every structural problem in the frontmatter in one
pass, each with its JSON Pointer path and line:column. With --strict,
unknown fields are errors rather than warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	sb, err := newSwitchboard(cmd)
	if err != nil {
		return err
	}
	path, err := vaultPath(args[0])
	if err != nil {
		return err
	}
	strict, _ := cmd.Flags().GetBool("strict")
	res, err := sb.ValidateFile(path, strict)
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		if err := writeJSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		if res.IsValid {
			fmt.Fprintf(os.Stdout, "%s: valid\n", path)
		} else {
			fmt.Fprintf(os.Stdout, "%s: %d error(s)\n", path, len(res.Errors))
		}
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stdout, "  %s %-24s %s\n", e.Position, e.Path, e.Message)
			if e.Suggestion != "" {
				fmt.Fprintf(os.Stdout, "      hint: %s\n", e.Suggestion)
			}
		}
		writeWarnings(os.Stdout, res.Warnings)
	}
	if !res.IsValid {
		return fmt.Errorf("%s is not valid", path)
	}
	return nil
}

// --- health ---

var healthCmd = &cobra.Command{
	Use:   "health <path>",
	Short: "Print a document's health score",
	Args:  cobra.ExactArgs(1),
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	sb, text, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	props, err := sb.ParseDocument(text)
	if err != nil {
		return err
	}
	h := sb.CalculateHealth(props)
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, map[string]float64{"health": h})
	}
	fmt.Fprintf(os.Stdout, "%.4f\n", h)
	return nil
}

// --- forecast ---

var forecastCmd = &cobra.Command{
	Use:   "forecast <path>",
	Short: "Estimate the time to resolve a document's open stubs",
	Long: `Forecast divides the priority-weighted count of open stubs by a
velocity (weighted stubs resolved per day). A velocity of zero or less
never completes.`,
	Args: cobra.ExactArgs(1),
	RunE: runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	sb, text, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	props, err := sb.ParseDocument(text)
	if err != nil {
		return err
	}
	velocity, _ := cmd.Flags().GetFloat64("velocity")
	physics := engine.Physics(props.Stubs, sb.Config())
	days := engine.ForecastCompletion(props.Stubs, sb.Config(), velocity)

	if jsonOutput(cmd) {
		out := map[string]any{
			"remaining_work": physics.RemainingWork,
			"velocity":       velocity,
			"days":           nil,
		}
		if !math.IsInf(days, 1) {
			out["days"] = days
		}
		return writeJSON(os.Stdout, out)
	}
	fmt.Fprintf(os.Stdout, "remaining work %.2f\n", physics.RemainingWork)
	if math.IsInf(days, 1) {
		fmt.Fprintln(os.Stdout, "completion     never (velocity must be positive)")
		return nil
	}
	fmt.Fprintf(os.Stdout, "completion     %.1f days\n", days)
	return nil
}

// --- anchors ---

var anchorsCmd = &cobra.Command{
	Use:   "anchors <path> <anchor>",
	Short: "Locate ^anchor tokens in a document body",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnchors,
}

func runAnchors(cmd *cobra.Command, args []string) error {
	sb, text, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}
	m := sb.FindAnchorMatches(text, args[1])
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, m)
	}
	if len(m.Matches) == 0 {
		fmt.Fprintf(os.Stdout, "^%s not found\n", m.Anchor)
		return nil
	}
	for _, match := range m.Matches {
		fmt.Fprintf(os.Stdout, "%d:%d  offset %d\n", match.Line, match.Column, match.Offset)
	}
	return nil
}

// --- shared helpers ---

// openDocument builds the switchboard and reads the document named by arg.
func openDocument(cmd *cobra.Command, arg string) (*switchboard.Switchboard, string, error) {
	sb, err := newSwitchboard(cmd)
	if err != nil {
		return nil, "", err
	}
	path, err := vaultPath(arg)
	if err != nil {
		return nil, "", err
	}
	text, err := sb.ReadDocument(path)
	if err != nil {
		return nil, "", err
	}
	return sb, text, nil
}

func init() {
	analyzeCmd.Flags().String("glob", "", "analyze every document matching this pattern (supports **)")
	analyzeCmd.Flags().Float64("days", 0, "days since the documents were last updated")
	analyzeCmd.Flags().Bool("strict", false, "warn about unknown frontmatter keys")
	analyzeCmd.Flags().Int("workers", 0, "concurrent analyses (default: number of CPUs)")

	validateCmd.Flags().Bool("strict", false, "treat unknown fields as errors")

	forecastCmd.Flags().Float64("velocity", 1, "weighted stubs resolved per day")

	rootCmd.AddCommand(parseCmd, analyzeCmd, validateCmd, healthCmd, forecastCmd, anchorsCmd)
}
