// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Refinement thresholds above which open stubs are suspicious.
const (
	RefinedWithStubsThreshold = 0.9
	BlockingRefinedThreshold  = 0.7
)

// Lint returns the non-fatal smells of a document. positions, when non-nil,
// maps JSON Pointers to source positions and is used to locate each warning.
func Lint(p types.L1Properties, cfg types.CalculationConfig, positions map[string]types.SourcePosition) []types.Warning {
	var warnings []types.Warning
	add := func(code, path, msg, suggestion string) {
		w := types.Warning{Code: code, Message: msg, Path: path, Suggestion: suggestion}
		if pos, ok := positions[path]; ok {
			w.Position = &pos
		}
		warnings = append(warnings, w)
	}

	if p.Title == "" {
		add(types.WarnMissingTitle, "/title", "missing title", "add a title key to the frontmatter")
	}

	open := p.OpenStubs()
	r := p.Refinement.Float()

	if r > RefinedWithStubsThreshold && len(open) > 0 {
		add(types.WarnRefinedWithStubs, "/refinement",
			fmt.Sprintf("refinement %.2f with %d open stubs", r, len(open)),
			"resolve the stubs or lower refinement")
	}

	blocking := 0
	for _, s := range open {
		if s.IsBlocking() {
			blocking++
		}
	}
	if r > BlockingRefinedThreshold && blocking > 0 {
		add(types.WarnBlockingHighRefined, "/stubs",
			fmt.Sprintf("blocking stubs with high refinement (%d blocking, refinement %.2f)", blocking, r),
			"")
	}

	u := Usefulness(p.Refinement, p.Audience, cfg.AudienceGates)
	if !u.IsUseful {
		add(types.WarnGateNotMet, "/audience",
			fmt.Sprintf("audience gate not met: refinement %.2f below %s gate %.2f", r, p.Audience, u.Gate),
			"")
	}
	return warnings
}
