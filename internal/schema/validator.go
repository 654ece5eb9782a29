// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/internal/engine"
	"github.com/pdiddy/doc-dimensions/internal/frontmatter"
	"github.com/pdiddy/doc-dimensions/internal/metadata"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// enumValues lists the accepted values of each enumerated field, for
// friendlier messages than the raw pattern failure.
var enumValues = map[string][]string{
	"audience":    strs(types.Audiences),
	"form":        strs(types.Forms),
	"origin":      strs(types.Origins),
	"stub_type":   strs(types.StubTypes),
	"stub_form":   strs(types.StubForms),
	"priority":    strs(types.Priorities),
	"stub_origin": strs(types.StubOrigins),
	"sync_status": strs(types.SyncStatuses),
}

// Validator checks documents against the embedded schemas. It is safe for
// concurrent use.
type Validator struct {
	frontmatter *jsonschema.Schema
	stubs       *jsonschema.Schema
	cfg         types.CalculationConfig
}

// NewValidator compiles the embedded schemas. cfg supplies the audience
// gates used by the lint pass.
func NewValidator(cfg types.CalculationConfig) (*Validator, error) {
	var p Provider
	fm, err := compile(FrontmatterURL, p.FrontmatterSchema())
	if err != nil {
		return nil, err
	}
	st, err := compile(StubsURL, p.StubsSchema())
	if err != nil {
		return nil, err
	}
	return &Validator{frontmatter: fm, stubs: st, cfg: cfg}, nil
}

func compile(url string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", url, err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", url, err)
	}
	return s, nil
}

// Validate checks the frontmatter of text. It reports every structural
// problem it can find in one pass; strict promotes unknown-field warnings to
// errors. When the structure is valid, lint warnings are added.
func (v *Validator) Validate(text string, strict bool) types.ValidationResult {
	r := &run{}

	span, err := frontmatter.Extract(text)
	if err != nil {
		var unterminated *frontmatter.UnterminatedError
		pos := types.SourcePosition{Line: 1, Column: 1}
		if errors.As(err, &unterminated) {
			pos = unterminated.Position
		}
		r.errors = append(r.errors, types.SchemaError{Message: err.Error(), Position: pos, Keyword: "syntax"})
		return r.result()
	}

	base := 0
	if span != nil {
		base = span.BodyStart
	}
	in := newInstance(frontmatter.NewTracker(text, base))

	var root any = map[string]any{}
	if span != nil {
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(span.Body), &node); err != nil {
			r.errors = append(r.errors, syntaxError(text, err, in))
			return r.result()
		}
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			if n := node.Content[0]; !(n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
				root = in.convert(n, "", 0)
			}
		}
	}
	r.errors = append(r.errors, in.errors...)

	r.check(v.frontmatter, root, in, identity(""))
	if m, ok := root.(map[string]any); ok {
		r.unknownFields(m, "", metadata.TopLevelFields, in, identity(""))
		if items, ok := m["stubs"].([]any); ok {
			v.checkStubs(r, items, in)
		}
	}

	if strict {
		kept := r.warnings[:0]
		for _, w := range r.warnings {
			if w.Code != types.WarnUnknownField {
				kept = append(kept, w)
				continue
			}
			r.errors = append(r.errors, types.SchemaError{
				Message:    w.Message,
				Path:       w.Path,
				Position:   *w.Position,
				Keyword:    "additionalProperties",
				Suggestion: w.Suggestion,
			})
		}
		r.warnings = kept
	}

	if len(r.errors) == 0 {
		doc, err := metadata.Decode(text, metadata.Options{})
		var pe *metadata.ParseError
		switch {
		case errors.As(err, &pe):
			r.errors = append(r.errors, types.SchemaError{Message: pe.Message, Path: pe.Field, Position: pe.Position})
		case err != nil:
			r.errors = append(r.errors, types.SchemaError{Message: err.Error(), Position: in.position("")})
		default:
			r.warnings = append(r.warnings, engine.Lint(doc.Properties, v.cfg, doc.Positions)...)
		}
	}
	return r.result()
}

func (v *Validator) checkStubs(r *run, items []any, in *instance) {
	canonical := make([]any, len(items))
	paths := pathMap{"": "/stubs"}
	for i, item := range items {
		src := fmt.Sprintf("/stubs/%d", i)
		c, m := canonicalStub(item, src, fmt.Sprintf("/%d", i))
		canonical[i] = c
		for k, p := range m {
			paths[k] = p
		}
		if obj, ok := c.(map[string]any); ok {
			r.unknownFields(obj, fmt.Sprintf("/%d", i), metadata.StubFields, in, paths)
		}
	}
	r.check(v.stubs, canonical, in, paths)
}

// canonicalStub rewrites compact and legacy stubs to the expanded form. The
// returned map translates pointers in the canonical value back to pointers in
// the source document.
func canonicalStub(item any, src, dst string) (any, pathMap) {
	paths := pathMap{dst: src}
	m, ok := item.(map[string]any)
	if !ok {
		return item, paths
	}
	if _, ok := m["stub_type"]; ok {
		return m, paths
	}
	if t, ok := m["type"]; ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			if k != "type" {
				out[k] = val
			}
		}
		out["stub_type"] = t
		paths[dst+"/stub_type"] = src + "/type"
		return out, paths
	}
	if len(m) != 1 {
		return m, paths
	}
	for key, val := range m {
		if !types.IsStubType(key) {
			return m, paths
		}
		keyPtr := src + "/" + metadata.EscapePointer(key)
		out := map[string]any{}
		switch fields := val.(type) {
		case nil:
		case map[string]any:
			for k, fv := range fields {
				out[k] = fv
			}
			paths[dst] = keyPtr
		default:
			out["description"] = val
			paths[dst+"/description"] = keyPtr
		}
		out["stub_type"] = key
		paths[dst+"/stub_type"] = src
		return out, paths
	}
	return m, paths
}

// pathMap translates canonical pointers to source pointers by longest prefix.
type pathMap map[string]string

func identity(prefix string) pathMap { return pathMap{"": prefix} }

func (pm pathMap) source(ptr string) string {
	for p := ptr; ; p = parent(p) {
		if src, ok := pm[p]; ok {
			return src + ptr[len(p):]
		}
		if p == "" {
			return ptr
		}
	}
}

// run accumulates the findings of one Validate call.
type run struct {
	errors   []types.SchemaError
	warnings []types.Warning
}

func (r *run) check(s *jsonschema.Schema, value any, in *instance, paths pathMap) {
	err := s.Validate(value)
	if err == nil {
		return
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		r.errors = append(r.errors, types.SchemaError{Message: err.Error(), Position: in.position("")})
		return
	}
	for _, leaf := range leaves(ve) {
		src := paths.source(leaf.InstanceLocation)
		e := types.SchemaError{
			Message:  leaf.Message,
			Path:     src,
			Position: in.position(src),
			Keyword:  keyword(leaf.KeywordLocation),
		}
		if e.Keyword == "pattern" {
			field := lastToken(leaf.InstanceLocation)
			if expected, ok := enumValues[field]; ok {
				got, _ := lookupString(value, leaf.InstanceLocation)
				e.Message = fmt.Sprintf("unknown %s %q (expected one of %s)", field, got, strings.Join(expected, ", "))
				e.Keyword = "enum"
				e.Suggestion = metadata.Suggest(got, expected)
			}
		}
		r.errors = append(r.errors, e)
	}
}

func (r *run) unknownFields(m map[string]any, ptr string, known []string, in *instance, paths pathMap) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if contains(known, k) {
			continue
		}
		src := paths.source(ptr + "/" + metadata.EscapePointer(k))
		pos, ok := in.keys[src]
		if !ok {
			pos = in.position(src)
		}
		r.warnings = append(r.warnings, types.Warning{
			Code:       types.WarnUnknownField,
			Message:    fmt.Sprintf("unknown field %q", k),
			Path:       src,
			Position:   &pos,
			Suggestion: metadata.Suggest(k, known),
		})
	}
}

func (r *run) result() types.ValidationResult {
	sort.SliceStable(r.errors, func(i, j int) bool {
		a, b := r.errors[i], r.errors[j]
		if a.Position.Line != b.Position.Line {
			return a.Position.Line < b.Position.Line
		}
		if a.Position.Column != b.Position.Column {
			return a.Position.Column < b.Position.Column
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Message < b.Message
	})
	errs := r.errors
	if errs == nil {
		errs = []types.SchemaError{}
	}
	warnings := r.warnings
	if warnings == nil {
		warnings = []types.Warning{}
	}
	return types.ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

// syntaxError reports a YAML parse failure with the position the decoder
// assigns to it.
func syntaxError(text string, err error, in *instance) types.SchemaError {
	_, derr := metadata.Decode(text, metadata.Options{})
	var pe *metadata.ParseError
	if errors.As(derr, &pe) {
		return types.SchemaError{Message: pe.Message, Position: pe.Position, Keyword: "syntax"}
	}
	return types.SchemaError{Message: err.Error(), Position: in.position(""), Keyword: "syntax"}
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func keyword(loc string) string {
	return lastToken(loc)
}

func lastToken(ptr string) string {
	tok := ptr[strings.LastIndexByte(ptr, '/')+1:]
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
}

// lookupString follows a JSON Pointer into v and returns the string found.
func lookupString(v any, ptr string) (string, bool) {
	if ptr != "" {
		for _, tok := range strings.Split(ptr[1:], "/") {
			tok = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
			switch c := v.(type) {
			case map[string]any:
				v = c[tok]
			case []any:
				var i int
				if _, err := fmt.Sscanf(tok, "%d", &i); err != nil || i < 0 || i >= len(c) {
					return "", false
				}
				v = c[i]
			default:
				return "", false
			}
		}
	}
	s, ok := v.(string)
	return s, ok
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func strs[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
