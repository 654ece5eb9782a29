// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TopLevelFields lists the canonical frontmatter keys in emission order.
var TopLevelFields = []string{"title", "refinement", "audience", "form", "origin", "tags", "stubs"}

// StubFields lists the canonical stub keys in emission order.
var StubFields = []string{"stub_type", "stub_form", "priority", "description", "stub_origin", "inline_anchor", "sync_status"}

// Suggest returns a "did you mean" hint for an unknown key, or "" when no
// known key is close enough.
func Suggest(name string, known []string) string {
	lower := strings.ToLower(name)
	best, bestDist := "", 3
	for _, k := range known {
		d := levenshtein.ComputeDistance(lower, k)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}
