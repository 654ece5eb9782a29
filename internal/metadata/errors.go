// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"errors"
	"fmt"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// ErrNotEditable is returned when an edit targets a node the writer cannot
// change safely (for example, a stub list defined through a YAML alias).
var ErrNotEditable = errors.New("frontmatter node is not editable")

// ParseError reports metadata that cannot be decoded.
type ParseError struct {
	Message  string               `json:"message"`
	Position types.SourcePosition `json:"position"`

	// Field is the JSON Pointer of the offending field, when known.
	Field string `json:"field,omitempty"`
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Position, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}
