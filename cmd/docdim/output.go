// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeWarnings(w io.Writer, warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\nWarnings (%d):\n", len(warnings))
	for _, wn := range warnings {
		loc := ""
		if wn.Position != nil {
			loc = wn.Position.String() + " "
		}
		fmt.Fprintf(w, "  %s%-26s %s\n", loc, wn.Code, wn.Message)
		if wn.Suggestion != "" {
			fmt.Fprintf(w, "      hint: %s\n", wn.Suggestion)
		}
	}
}

func writeDimensions(w io.Writer, d types.L2Dimensions) {
	s := d.State
	fmt.Fprintf(w, "%-14s %.4f\n", "health", s.Health)
	fmt.Fprintf(w, "%-14s %s (gate %.2f for %s, margin %+.2f)\n", "useful",
		yesNo(s.Usefulness.IsUseful), s.Usefulness.Gate, s.Usefulness.Audience, s.Usefulness.Margin)
	fmt.Fprintf(w, "%-14s %.4f\n", "freshness", s.Freshness)
	fmt.Fprintf(w, "%-14s %.4f\n", "trust", s.TrustLevel)
	fmt.Fprintf(w, "%-14s %.4f\n", "stub penalty", d.StubPenalty)
	fmt.Fprintf(w, "%-14s %s\n", "refinement", d.RefinementLabel)

	fmt.Fprintf(w, "\n%-12s  %6s  %8s  %8s  %9s  %s\n", "Family", "Stubs", "Energy", "Friction", "Magnitude", "Blocking")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, f := range d.Physics.Families {
		fmt.Fprintf(w, "%-12s  %6d  %8.3f  %8.3f  %9.3f  %d\n",
			f.Family, f.StubCount, f.PotentialEnergy, f.Friction, f.Magnitude, f.BlockingCount)
	}
	a := d.Physics.Aggregate
	fmt.Fprintf(w, "%-12s  %6d  %8.3f  %8.3f  %9.3f  %d\n",
		a.Family, a.StubCount, a.PotentialEnergy, a.Friction, a.Magnitude, a.BlockingCount)
	fmt.Fprintf(w, "\nremaining work %.2f\n", d.Physics.RemainingWork)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
