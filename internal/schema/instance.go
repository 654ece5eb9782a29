// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/internal/frontmatter"
	"github.com/pdiddy/doc-dimensions/internal/metadata"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// maxDepth bounds alias expansion.
const maxDepth = 64

// instance converts a YAML node tree into a JSON-compatible value and
// records the source position of every value and key by JSON Pointer.
type instance struct {
	tracker *frontmatter.Tracker
	values  map[string]types.SourcePosition
	keys    map[string]types.SourcePosition
	errors  []types.SchemaError
}

func newInstance(tracker *frontmatter.Tracker) *instance {
	return &instance{
		tracker: tracker,
		values:  map[string]types.SourcePosition{},
		keys:    map[string]types.SourcePosition{},
	}
}

func (in *instance) convert(n *yaml.Node, ptr string, depth int) any {
	if depth > maxDepth {
		in.errors = append(in.errors, types.SchemaError{
			Message:  "aliases nest too deeply",
			Path:     ptr,
			Position: in.pos(n),
		})
		return nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		in.values[ptr] = in.pos(n)
		return in.convertResolved(n.Alias, ptr, depth+1)
	}
	in.values[ptr] = in.pos(n)
	return in.convertResolved(n, ptr, depth)
}

func (in *instance) convertResolved(n *yaml.Node, ptr string, depth int) any {
	switch n.Kind {
	case yaml.AliasNode:
		return in.convert(n, ptr, depth+1)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			childPtr := ptr + "/" + metadata.EscapePointer(key.Value)
			if _, dup := m[key.Value]; dup {
				in.errors = append(in.errors, types.SchemaError{
					Message:  fmt.Sprintf("duplicate key %q", key.Value),
					Path:     childPtr,
					Position: in.pos(key),
					Keyword:  "duplicate",
				})
				continue
			}
			in.keys[childPtr] = in.pos(key)
			m[key.Value] = in.convert(n.Content[i+1], childPtr, depth+1)
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, len(n.Content))
		for i, item := range n.Content {
			s[i] = in.convert(item, fmt.Sprintf("%s/%d", ptr, i), depth+1)
		}
		return s
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil
}

// scalarValue maps a YAML scalar to the JSON value a schema sees. Numbers
// become float64; tags without a JSON counterpart stay strings.
func scalarValue(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}

func (in *instance) pos(n *yaml.Node) types.SourcePosition {
	return in.tracker.NodePosition(n.Line, n.Column)
}

// position returns the recorded position of ptr or of its nearest ancestor.
func (in *instance) position(ptr string) types.SourcePosition {
	for {
		if p, ok := in.values[ptr]; ok {
			return p
		}
		if ptr == "" {
			return in.tracker.Position(0)
		}
		ptr = parent(ptr)
	}
}

func parent(ptr string) string {
	i := strings.LastIndexByte(ptr, '/')
	if i <= 0 {
		return ""
	}
	return ptr[:i]
}
