// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/internal/frontmatter"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// StubCount returns the number of stubs currently in the document, including
// edits not yet encoded.
func (d *Document) StubCount() int { return len(d.stubRefs) }

// AppendStub adds s to the end of the stub list, creating the list (and the
// frontmatter block) if needed. It returns the new stub's index.
func (d *Document) AppendStub(s types.Stub) (int, error) {
	seq, err := d.ensureStubSeq()
	if err != nil {
		return 0, err
	}
	node := newStubNode(s)
	seq.Content = append(seq.Content, node)
	d.stubRefs = append(d.stubRefs, stubRef{node: node, shape: shapeExpanded})
	d.dirty = true
	return len(d.stubRefs) - 1, nil
}

// RemoveStub deletes the stub at index i.
func (d *Document) RemoveStub(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.stubSeq.Content = append(d.stubSeq.Content[:i:i], d.stubSeq.Content[i+1:]...)
	d.stubRefs = append(d.stubRefs[:i:i], d.stubRefs[i+1:]...)
	d.dirty = true
	return nil
}

// SetStubField sets a canonical stub field on the stub at index i, keeping
// the stub in the shape it was written in where possible. An empty value
// removes optional fields (inline_anchor, sync_status).
func (d *Document) SetStubField(i int, field, value string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if !isStubField(field) {
		return fmt.Errorf("unknown stub field %q", field)
	}
	ref := &d.stubRefs[i]
	node := resolve(ref.node)
	if node != ref.node {
		return fmt.Errorf("stub %d is an alias: %w", i, ErrNotEditable)
	}

	switch ref.shape {
	case shapeCompactScalar:
		switch field {
		case "stub_type":
			node.Content[0].SetString(value)
		case "description":
			node.Content[1].SetString(value)
		default:
			if value == "" && isOptionalStubField(field) {
				return nil
			}
			// Promote "- verify: text" to "- verify: {description: text}".
			inner := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			inner.Content = append(inner.Content, scalar("description"), node.Content[1])
			node.Content[1] = inner
			ref.shape = shapeCompactObject
			setMapValue(inner, field, value)
		}
	case shapeCompactObject:
		if field == "stub_type" {
			node.Content[0].SetString(value)
			break
		}
		inner := resolve(node.Content[1])
		if inner != node.Content[1] {
			return fmt.Errorf("stub %d fields are an alias: %w", i, ErrNotEditable)
		}
		setMapValue(inner, field, value)
	case shapeExpanded:
		setMapValue(node, field, value)
	case shapeLegacy:
		if field == "stub_type" {
			field = "type"
		}
		setMapValue(node, field, value)
	}
	d.dirty = true
	return nil
}

// Encode renders the document with any edits applied. An unedited document
// is returned byte for byte. Content after the closing fence is always
// preserved verbatim.
func (d *Document) Encode() (string, error) {
	if !d.dirty {
		return d.text, nil
	}

	body := ""
	if d.root != nil && len(d.root.Content) > 0 {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.doc); err != nil {
			return "", fmt.Errorf("encoding frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encoding frontmatter: %w", err)
		}
		body = stripTrailingSpace(buf.String())
	}

	var b strings.Builder
	if d.span != nil {
		if d.span.LineEnding != "\n" {
			body = strings.ReplaceAll(body, "\n", d.span.LineEnding)
		}
		b.WriteString(d.text[:d.span.BodyStart])
		b.WriteString(body)
		b.WriteString(d.text[d.span.BodyEnd:])
		return b.String(), nil
	}

	rest := d.text
	if strings.HasPrefix(rest, frontmatter.BOM) {
		b.WriteString(frontmatter.BOM)
		rest = rest[len(frontmatter.BOM):]
	}
	b.WriteString(frontmatter.Fence + "\n")
	b.WriteString(body)
	b.WriteString(frontmatter.Fence + "\n")
	b.WriteString(rest)
	return b.String(), nil
}

func (d *Document) checkIndex(i int) error {
	if i < 0 || i >= len(d.stubRefs) {
		return fmt.Errorf("stub index %d out of range (document has %d stubs)", i, len(d.stubRefs))
	}
	return nil
}

// ensureStubSeq returns the stubs sequence node, creating the top-level
// mapping and the stubs key as needed.
func (d *Document) ensureStubSeq() (*yaml.Node, error) {
	if d.stubSeq != nil {
		return d.stubSeq, nil
	}
	if d.root == nil {
		d.root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if d.doc == nil {
			d.doc = &yaml.Node{Kind: yaml.DocumentNode}
		}
		d.doc.Content = []*yaml.Node{d.root}
	}

	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value != "stubs" {
			continue
		}
		value := d.root.Content[i+1]
		if value.Kind == yaml.AliasNode {
			return nil, fmt.Errorf("stubs is an alias: %w", ErrNotEditable)
		}
		// "stubs:" with no value; the decoder has already rejected anything
		// else that is not a sequence.
		*value = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", LineComment: value.LineComment}
		d.stubSeq = value
		return value, nil
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	d.root.Content = append(d.root.Content, scalar("stubs"), seq)
	d.stubSeq = seq
	return seq, nil
}

func newStubNode(s types.Stub) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(k, v string) {
		m.Content = append(m.Content, scalar(k), scalar(v))
	}
	add("stub_type", string(s.StubType))
	add("stub_form", string(s.StubForm))
	add("priority", string(s.Priority))
	add("description", s.Description)
	add("stub_origin", string(s.StubOrigin))
	if s.InlineAnchor != "" {
		add("inline_anchor", s.InlineAnchor)
	}
	if s.SyncStatus != "" {
		add("sync_status", string(s.SyncStatus))
	}
	return m
}

// setMapValue sets key to a string value in mapping m, appending the key when
// absent. An empty value deletes optional keys.
func setMapValue(m *yaml.Node, key, value string) {
	optional := isOptionalStubField(key)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		if value == "" && optional {
			m.Content = append(m.Content[:i:i], m.Content[i+2:]...)
			return
		}
		v := m.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			m.Content[i+1] = scalar(value)
			return
		}
		v.SetString(value)
		return
	}
	if value == "" && optional {
		return
	}
	m.Content = append(m.Content, scalar(key), scalar(value))
}

func isOptionalStubField(key string) bool {
	return key == "inline_anchor" || key == "sync_status"
}

func scalar(v string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(v)
	return n
}

func isStubField(name string) bool {
	for _, f := range StubFields {
		if f == name {
			return true
		}
	}
	return false
}

// stripTrailingSpace removes trailing blanks from every line.
func stripTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}
