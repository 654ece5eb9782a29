// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-dimensions/internal/switchboard"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Add, resolve, or update the stubs of a document",
	Long: `Stub edits the stub list in a document's frontmatter and writes the
document back. The body and any unknown frontmatter keys are preserved.
Stubs are selected by --index or by --prefix (description prefix); a
prefix that matches more than one stub is an error.`,
}

// --- add subcommand ---

var stubAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Append a stub to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStubAdd,
}

func runStubAdd(cmd *cobra.Command, args []string) error {
	sb, path, err := openForEdit(cmd, args[0])
	if err != nil {
		return err
	}

	var stub types.Stub
	raw, _ := cmd.Flags().GetString("type")
	if stub.StubType, err = types.ParseStubType(raw); err != nil {
		return err
	}
	stub.Description, _ = cmd.Flags().GetString("description")
	if err := parseFlag(cmd, "form", types.ParseStubForm, &stub.StubForm); err != nil {
		return err
	}
	if err := parseFlag(cmd, "priority", types.ParsePriority, &stub.Priority); err != nil {
		return err
	}
	if err := parseFlag(cmd, "origin", types.ParseStubOrigin, &stub.StubOrigin); err != nil {
		return err
	}
	if err := parseFlag(cmd, "status", types.ParseSyncStatus, &stub.SyncStatus); err != nil {
		return err
	}
	stub.InlineAnchor, _ = cmd.Flags().GetString("anchor")

	res, err := sb.AddStubToFile(path, stub)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, res)
	}
	fmt.Fprintf(os.Stdout, "added stub %d to %s: %s %q\n", res.Index, path, res.Stub.StubType, res.Stub.Description)
	return nil
}

// --- resolve subcommand ---

var stubResolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Mark a stub resolved, or remove it with --remove",
	Args:  cobra.ExactArgs(1),
	RunE:  runStubResolve,
}

func runStubResolve(cmd *cobra.Command, args []string) error {
	sb, path, err := openForEdit(cmd, args[0])
	if err != nil {
		return err
	}
	sel, err := selectorFromFlags(cmd)
	if err != nil {
		return err
	}
	res := switchboard.ResolutionMark
	if remove, _ := cmd.Flags().GetBool("remove"); remove {
		res = switchboard.ResolutionRemove
	}

	result, err := sb.ResolveStubInFile(path, sel, res)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, result)
	}
	verb := "resolved"
	if result.Resolution == switchboard.ResolutionRemove {
		verb = "removed"
	}
	fmt.Fprintf(os.Stdout, "%s stub %d in %s: %s %q\n", verb, result.Index, path, result.Stub.StubType, result.Stub.Description)
	return nil
}

// --- update subcommand ---

var stubUpdateCmd = &cobra.Command{
	Use:   "update <path>",
	Short: "Change fields of a stub",
	Long: `Update changes only the fields given on the command line. Passing an
empty --anchor or --status removes that field.`,
	Args: cobra.ExactArgs(1),
	RunE: runStubUpdate,
}

func runStubUpdate(cmd *cobra.Command, args []string) error {
	sb, path, err := openForEdit(cmd, args[0])
	if err != nil {
		return err
	}
	sel, err := selectorFromFlags(cmd)
	if err != nil {
		return err
	}

	var u switchboard.StubUpdates
	if u.StubType, err = optionalFlag(cmd, "type", types.ParseStubType); err != nil {
		return err
	}
	if u.StubForm, err = optionalFlag(cmd, "form", types.ParseStubForm); err != nil {
		return err
	}
	if u.Priority, err = optionalFlag(cmd, "priority", types.ParsePriority); err != nil {
		return err
	}
	if u.StubOrigin, err = optionalFlag(cmd, "origin", types.ParseStubOrigin); err != nil {
		return err
	}
	if cmd.Flags().Changed("status") {
		raw, _ := cmd.Flags().GetString("status")
		var st types.SyncStatus
		if raw != "" {
			if st, err = types.ParseSyncStatus(raw); err != nil {
				return err
			}
		}
		u.SyncStatus = &st
	}
	if cmd.Flags().Changed("description") {
		d, _ := cmd.Flags().GetString("description")
		u.Description = &d
	}
	if cmd.Flags().Changed("anchor") {
		a, _ := cmd.Flags().GetString("anchor")
		u.InlineAnchor = &a
	}

	result, err := sb.UpdateStubInFile(path, sel, u)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(os.Stdout, result)
	}
	fmt.Fprintf(os.Stdout, "updated stub %d in %s: %s %q\n", result.Index, path, result.Stub.StubType, result.Stub.Description)
	return nil
}

// --- shared helpers ---

func openForEdit(cmd *cobra.Command, arg string) (*switchboard.Switchboard, string, error) {
	sb, err := newSwitchboard(cmd)
	if err != nil {
		return nil, "", err
	}
	path, err := vaultPath(arg)
	if err != nil {
		return nil, "", err
	}
	return sb, path, nil
}

func selectorFromFlags(cmd *cobra.Command) (switchboard.StubSelector, error) {
	var sel switchboard.StubSelector
	if cmd.Flags().Changed("index") {
		i, _ := cmd.Flags().GetInt("index")
		sel.Index = &i
	}
	sel.DescriptionPrefix, _ = cmd.Flags().GetString("prefix")
	if sel.Index == nil && sel.DescriptionPrefix == "" {
		return sel, fmt.Errorf("select a stub with --index or --prefix")
	}
	return sel, nil
}

// parseFlag parses a non-empty flag value into dst.
func parseFlag[T any](cmd *cobra.Command, name string, parse func(string) (T, error), dst *T) error {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// optionalFlag returns nil unless the flag was given.
func optionalFlag[T any](cmd *cobra.Command, name string, parse func(string) (T, error)) (*T, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func init() {
	for _, c := range []*cobra.Command{stubAddCmd, stubUpdateCmd} {
		c.Flags().String("type", "", "stub type: link, citation, verify, calculation, benchmark, summarize, compare, draft, example, refactor, reorganize")
		c.Flags().String("description", "", "what is missing")
		c.Flags().String("form", "", "stub form: transient, persistent, blocking, structural")
		c.Flags().String("priority", "", "priority: low, medium, high, critical")
		c.Flags().String("origin", "", "stub origin: author, qa-detected, review-feedback, auto-discovery")
		c.Flags().String("anchor", "", "inline ^anchor the stub refers to")
		c.Flags().String("status", "", "sync status: pending, in-progress, resolved, cancelled")
	}
	_ = stubAddCmd.MarkFlagRequired("type")
	_ = stubAddCmd.MarkFlagRequired("description")

	for _, c := range []*cobra.Command{stubResolveCmd, stubUpdateCmd} {
		c.Flags().Int("index", 0, "select the stub at this 0-based index")
		c.Flags().String("prefix", "", "select the stub whose description starts with this text")
	}
	stubResolveCmd.Flags().Bool("remove", false, "remove the stub instead of marking it resolved")

	stubCmd.AddCommand(stubAddCmd, stubResolveCmd, stubUpdateCmd)
	rootCmd.AddCommand(stubCmd)
}
