// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata decodes frontmatter into L1 properties and writes edits
// back without disturbing the rest of the document.
// Implements: parse_document (L1 decoding); stub edits for add_stub,
// resolve_stub and update_stub.
package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/internal/frontmatter"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Options controls decoding.
type Options struct {
	// Strict reports unknown keys as warnings with a suggestion. Unknown keys
	// are preserved in the extras bag either way.
	Strict bool
}

// Document is a decoded document. Properties reflect the text as it was
// decoded; edits made through the Document are only visible after Encode.
type Document struct {
	Properties types.L1Properties

	// Warnings are non-fatal decoder findings (strict mode only).
	Warnings []types.Warning

	// Positions maps the JSON Pointer of every decoded key to its position.
	Positions map[string]types.SourcePosition

	text    string
	span    *frontmatter.Span
	tracker *frontmatter.Tracker
	opts    Options

	doc      *yaml.Node // document node; nil when the body is empty
	root     *yaml.Node // top-level mapping; nil when absent
	stubSeq  *yaml.Node
	stubRefs []stubRef
	dirty    bool
}

// yamlLinePattern extracts the line number from yaml.v3 syntax errors.
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// Decode parses the frontmatter of text. A document without frontmatter
// decodes to the default properties.
func Decode(text string, opts Options) (*Document, error) {
	d := &Document{
		Properties: types.DefaultProperties(),
		Positions:  map[string]types.SourcePosition{},
		text:       text,
		opts:       opts,
	}

	span, err := frontmatter.Extract(text)
	if err != nil {
		var unterminated *frontmatter.UnterminatedError
		if errors.As(err, &unterminated) {
			return nil, &ParseError{Message: "unterminated frontmatter", Position: unterminated.Position}
		}
		return nil, err
	}
	if span == nil {
		d.tracker = frontmatter.NewTracker(text, 0)
		return d, nil
	}
	d.span = span
	d.tracker = frontmatter.NewTracker(text, span.BodyStart)

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(span.Body), &node); err != nil {
		return nil, d.syntaxError(err)
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return d, nil
	}
	d.doc = &node

	root := node.Content[0]
	if isNull(root) {
		return d, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Message: "frontmatter must be a mapping of keys to values", Position: d.pos(root)}
	}
	d.root = root

	if err := d.decodeRoot(); err != nil {
		return nil, err
	}
	return d, nil
}

// Text returns the document text the Document was decoded from.
func (d *Document) Text() string { return d.text }

// Span returns the frontmatter span, or nil when the document had none.
func (d *Document) Span() *frontmatter.Span { return d.span }

func (d *Document) decodeRoot() error {
	props := &d.Properties
	seen := make(map[string]*yaml.Node)

	for i := 0; i+1 < len(d.root.Content); i += 2 {
		key, value := d.root.Content[i], resolve(d.root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return &ParseError{Message: "frontmatter keys must be plain strings", Position: d.pos(key)}
		}
		name := key.Value
		ptr := "/" + EscapePointer(name)
		if prev, ok := seen[name]; ok {
			return &ParseError{
				Message:  fmt.Sprintf("duplicate key %q (first defined at %s)", name, d.pos(prev)),
				Position: d.pos(key),
				Field:    ptr,
			}
		}
		seen[name] = key
		d.Positions[ptr] = d.pos(key)

		switch name {
		case "title":
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.ScalarNode {
				return d.fieldError(value, ptr, "title must be a string")
			}
			props.Title = value.Value

		case "refinement":
			if isNull(value) {
				continue
			}
			if value.Kind != yaml.ScalarNode || (value.Tag != "!!int" && value.Tag != "!!float") {
				return d.fieldError(key, ptr, "refinement must be a number")
			}
			var f float64
			if err := value.Decode(&f); err != nil {
				return d.fieldError(key, ptr, "refinement must be a number")
			}
			r, err := types.NewRefinement(f)
			if err != nil {
				return d.fieldError(key, ptr, err.Error())
			}
			props.Refinement = r

		case "audience":
			if err := decodeEnum(d, value, ptr, types.ParseAudience, &props.Audience); err != nil {
				return err
			}

		case "form":
			if err := decodeEnum(d, value, ptr, types.ParseForm, &props.Form); err != nil {
				return err
			}

		case "origin":
			if err := decodeEnum(d, value, ptr, types.ParseOrigin, &props.Origin); err != nil {
				return err
			}

		case "tags":
			tags, err := d.decodeTags(value, ptr)
			if err != nil {
				return err
			}
			props.Tags = tags

		case "stubs":
			if err := d.decodeStubs(value); err != nil {
				return err
			}

		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return d.fieldError(value, ptr, fmt.Sprintf("decoding %q: %v", name, err))
			}
			if props.Extras == nil {
				props.Extras = make(map[string]any)
			}
			props.Extras[name] = v
			if d.opts.Strict {
				d.warnUnknown(key, ptr, name, TopLevelFields)
			}
		}
	}
	return nil
}

func (d *Document) decodeTags(value *yaml.Node, ptr string) ([]string, error) {
	switch {
	case isNull(value):
		return []string{}, nil
	case value.Kind == yaml.ScalarNode:
		return []string{value.Value}, nil
	case value.Kind != yaml.SequenceNode:
		return nil, d.fieldError(value, ptr, "tags must be a list of strings")
	}
	tags := make([]string, 0, len(value.Content))
	for i, item := range value.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return nil, d.fieldError(item, fmt.Sprintf("%s/%d", ptr, i), "tags must be a list of strings")
		}
		tags = append(tags, item.Value)
	}
	return tags, nil
}

func (d *Document) decodeStubs(value *yaml.Node) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.SequenceNode {
		return d.fieldError(value, "/stubs", "stubs must be a list")
	}
	d.stubSeq = value
	stubs := make([]types.Stub, 0, len(value.Content))
	for i, item := range value.Content {
		stub, shape, err := d.decodeStub(item, i)
		if err != nil {
			return err
		}
		stubs = append(stubs, stub)
		d.stubRefs = append(d.stubRefs, stubRef{node: item, shape: shape})
	}
	d.Properties.Stubs = stubs
	return nil
}

// decodeEnum decodes a scalar enumeration into dst. A null value keeps the
// default already in dst.
func decodeEnum[T any](d *Document, value *yaml.Node, ptr string, parse func(string) (T, error), dst *T) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return d.fieldError(value, ptr, fmt.Sprintf("%s must be a string", strings.TrimPrefix(ptr, "/")))
	}
	v, err := parse(value.Value)
	if err != nil {
		return d.fieldError(value, ptr, err.Error())
	}
	*dst = v
	return nil
}

func (d *Document) warnUnknown(key *yaml.Node, ptr, name string, known []string) {
	pos := d.pos(key)
	d.Warnings = append(d.Warnings, types.Warning{
		Code:       types.WarnUnknownField,
		Message:    fmt.Sprintf("unknown field %q", name),
		Path:       ptr,
		Position:   &pos,
		Suggestion: Suggest(name, known),
	})
}

func (d *Document) fieldError(n *yaml.Node, ptr, msg string) *ParseError {
	return &ParseError{Message: msg, Position: d.pos(n), Field: ptr}
}

func (d *Document) syntaxError(err error) *ParseError {
	msg := err.Error()
	pos := d.tracker.Position(0)
	if m := yamlLinePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		pos = d.tracker.NodePosition(line, 1)
		msg = m[2]
	} else {
		msg = strings.TrimPrefix(msg, "yaml: ")
	}
	return &ParseError{Message: "invalid frontmatter: " + msg, Position: pos}
}

// pos returns the document position of a node.
func (d *Document) pos(n *yaml.Node) types.SourcePosition {
	return d.tracker.NodePosition(n.Line, n.Column)
}

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// EscapePointer escapes a key for use as a JSON Pointer token.
func EscapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
