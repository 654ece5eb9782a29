// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// stubShape is the input form a stub was written in. Decoding erases it; the
// writer needs it to edit the stub in place.
type stubShape int

const (
	// - verify: "Check source"
	shapeCompactScalar stubShape = iota
	// - verify: { description: ..., priority: ... }
	shapeCompactObject
	// - stub_type: verify
	//   description: ...
	shapeExpanded
	// - type: verify
	//   description: ...
	shapeLegacy
)

type stubRef struct {
	node  *yaml.Node
	shape stubShape
}

// decodeStub dispatches on the shape of n and returns the canonical stub.
func (d *Document) decodeStub(item *yaml.Node, index int) (types.Stub, stubShape, error) {
	ptr := fmt.Sprintf("/stubs/%d", index)
	start := d.pos(item)
	d.Positions[ptr] = start

	n := resolve(item)
	if n.Kind != yaml.MappingNode {
		return types.Stub{}, 0, &ParseError{Message: "stub must be a mapping", Position: start, Field: ptr}
	}

	stub := types.NewStub("", "")
	var (
		shape    stubShape
		typeName string
		fields   *yaml.Node
		typeKey  string
	)

	switch {
	case lookup(n, "stub_type") != nil:
		shape, fields, typeKey = shapeExpanded, n, "stub_type"
	case lookup(n, "type") != nil:
		shape, fields, typeKey = shapeLegacy, n, "type"
	case len(n.Content) == 2:
		typeName = n.Content[0].Value
		if _, err := types.ParseStubType(typeName); err != nil {
			return stub, 0, &ParseError{Message: err.Error(), Position: start, Field: ptr + "/stub_type"}
		}
		value := resolve(n.Content[1])
		switch {
		case isNull(value):
			shape = shapeCompactObject
		case value.Kind == yaml.ScalarNode:
			shape = shapeCompactScalar
			stub.Description = value.Value
		case value.Kind == yaml.MappingNode:
			shape, fields = shapeCompactObject, value
		default:
			return stub, 0, &ParseError{
				Message:  fmt.Sprintf("stub %q must have a description string or a mapping of fields", typeName),
				Position: start,
				Field:    ptr,
			}
		}
	default:
		return stub, 0, &ParseError{
			Message:  "unrecognized stub shape: expected stub_type, type, or a single <stub_type> key",
			Position: start,
			Field:    ptr,
		}
	}

	if typeKey != "" {
		tv := resolve(lookup(n, typeKey))
		if tv.Kind != yaml.ScalarNode {
			return stub, 0, &ParseError{Message: typeKey + " must be a string", Position: start, Field: ptr + "/stub_type"}
		}
		typeName = tv.Value
	}
	t, err := types.ParseStubType(typeName)
	if err != nil {
		return stub, 0, &ParseError{Message: err.Error(), Position: start, Field: ptr + "/stub_type"}
	}
	stub.StubType = t

	if fields != nil {
		if err := d.decodeStubFields(fields, ptr, typeKey, &stub); err != nil {
			return stub, 0, err
		}
	}

	if strings.TrimSpace(stub.Description) == "" {
		return stub, 0, &ParseError{Message: "stub is missing a description", Position: start, Field: ptr + "/description"}
	}
	return stub, shape, nil
}

func (d *Document) decodeStubFields(fields *yaml.Node, ptr, typeKey string, stub *types.Stub) error {
	for i := 0; i+1 < len(fields.Content); i += 2 {
		key, value := fields.Content[i], resolve(fields.Content[i+1])
		name := key.Value
		fieldPtr := ptr + "/" + EscapePointer(name)
		if name == typeKey {
			continue
		}
		var err error
		switch name {
		case "description":
			if value.Kind != yaml.ScalarNode {
				return d.fieldError(value, fieldPtr, "description must be a string")
			}
			if !isNull(value) {
				stub.Description = value.Value
			}
		case "inline_anchor":
			if value.Kind != yaml.ScalarNode {
				return d.fieldError(value, fieldPtr, "inline_anchor must be a string")
			}
			if !isNull(value) {
				stub.InlineAnchor = value.Value
			}
		case "stub_form":
			err = decodeEnum(d, value, fieldPtr, types.ParseStubForm, &stub.StubForm)
		case "priority":
			err = decodeEnum(d, value, fieldPtr, types.ParsePriority, &stub.Priority)
		case "stub_origin":
			err = decodeEnum(d, value, fieldPtr, types.ParseStubOrigin, &stub.StubOrigin)
		case "sync_status":
			err = decodeEnum(d, value, fieldPtr, types.ParseSyncStatus, &stub.SyncStatus)
		default:
			if d.opts.Strict {
				d.warnUnknown(key, fieldPtr, name, StubFields)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// lookup returns the value node for key in mapping m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
