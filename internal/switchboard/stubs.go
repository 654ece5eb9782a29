// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package switchboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/pdiddy/doc-dimensions/internal/metadata"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// StubSelector picks one stub of a document, by index or by description
// prefix. Index takes precedence when set.
type StubSelector struct {
	Index             *int   `json:"index,omitempty"`
	DescriptionPrefix string `json:"description_prefix,omitempty"`
}

func (sel StubSelector) String() string {
	if sel.Index != nil {
		return fmt.Sprintf("index %d", *sel.Index)
	}
	return fmt.Sprintf("description prefix %q", sel.DescriptionPrefix)
}

// Resolution says what ResolveStub does with the selected stub.
type Resolution string

const (
	// ResolutionMark sets sync_status to resolved and keeps the stub.
	ResolutionMark Resolution = "mark"

	// ResolutionRemove deletes the stub.
	ResolutionRemove Resolution = "remove"
)

// ParseResolution accepts "mark" (or "resolve") and "remove".
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mark", "resolve", "resolved":
		return ResolutionMark, nil
	case "remove", "delete":
		return ResolutionRemove, nil
	}
	return "", fmt.Errorf("unknown resolution %q (expected mark or remove)", s)
}

// StubUpdates lists the fields UpdateStub changes. Nil fields are left
// alone; an empty InlineAnchor or SyncStatus removes that field.
type StubUpdates struct {
	StubType     *types.StubType   `json:"stub_type,omitempty"`
	StubForm     *types.StubForm   `json:"stub_form,omitempty"`
	Priority     *types.Priority   `json:"priority,omitempty"`
	Description  *string           `json:"description,omitempty"`
	StubOrigin   *types.StubOrigin `json:"stub_origin,omitempty"`
	InlineAnchor *string           `json:"inline_anchor,omitempty"`
	SyncStatus   *types.SyncStatus `json:"sync_status,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u StubUpdates) IsEmpty() bool {
	return u == StubUpdates{}
}

type fieldEdit struct {
	field string
	value string
}

// apply returns s with the updates applied and the edits to write.
func (u StubUpdates) apply(s types.Stub) (types.Stub, []fieldEdit) {
	var edits []fieldEdit
	if u.StubType != nil {
		s.StubType = *u.StubType
		edits = append(edits, fieldEdit{"stub_type", string(s.StubType)})
	}
	if u.StubForm != nil {
		s.StubForm = *u.StubForm
		edits = append(edits, fieldEdit{"stub_form", string(s.StubForm)})
	}
	if u.Priority != nil {
		s.Priority = *u.Priority
		edits = append(edits, fieldEdit{"priority", string(s.Priority)})
	}
	if u.Description != nil {
		s.Description = strings.TrimSpace(*u.Description)
		edits = append(edits, fieldEdit{"description", s.Description})
	}
	if u.StubOrigin != nil {
		s.StubOrigin = *u.StubOrigin
		edits = append(edits, fieldEdit{"stub_origin", string(s.StubOrigin)})
	}
	if u.InlineAnchor != nil {
		s.InlineAnchor = strings.TrimSpace(*u.InlineAnchor)
		edits = append(edits, fieldEdit{"inline_anchor", s.InlineAnchor})
	}
	if u.SyncStatus != nil {
		s.SyncStatus = *u.SyncStatus
		edits = append(edits, fieldEdit{"sync_status", string(s.SyncStatus)})
	}
	return s, edits
}

// StubAddResult describes an added stub.
type StubAddResult struct {
	Index int        `json:"index"`
	Stub  types.Stub `json:"stub"`
}

// StubResolveResult describes a resolved stub.
type StubResolveResult struct {
	Index      int        `json:"index"`
	Stub       types.Stub `json:"stub"`
	Resolution Resolution `json:"resolution"`
}

// StubUpdateResult describes an updated stub. Stub holds the new values.
type StubUpdateResult struct {
	Index    int        `json:"index"`
	Previous types.Stub `json:"previous"`
	Stub     types.Stub `json:"stub"`
}

// AddStub appends stub to the document's stub list. Empty form, priority,
// and origin take their defaults. The body and unknown keys are preserved.
func (s *Switchboard) AddStub(text string, stub types.Stub) (string, StubAddResult, error) {
	stub = withDefaults(stub)
	if err := stub.Validate(); err != nil {
		return "", StubAddResult{}, &Error{Kind: KindInvalidStub, Message: "invalid stub", Err: err}
	}

	doc, err := metadata.Decode(text, metadata.Options{})
	if err != nil {
		return "", StubAddResult{}, err
	}
	idx, err := doc.AppendStub(stub)
	if err != nil {
		return "", StubAddResult{}, serializationError(err)
	}

	want := doc.Properties
	want.Stubs = append(append([]types.Stub{}, want.Stubs...), stub)
	out, err := encodeAndVerify(doc, want)
	if err != nil {
		return "", StubAddResult{}, err
	}
	return out, StubAddResult{Index: idx, Stub: stub}, nil
}

// ResolveStub marks the selected stub resolved or removes it.
func (s *Switchboard) ResolveStub(text string, sel StubSelector, res Resolution) (string, StubResolveResult, error) {
	if res == "" {
		res = ResolutionMark
	}
	if res != ResolutionMark && res != ResolutionRemove {
		return "", StubResolveResult{}, fmt.Errorf("unknown resolution %q", res)
	}

	doc, err := metadata.Decode(text, metadata.Options{})
	if err != nil {
		return "", StubResolveResult{}, err
	}
	idx, err := selectStub(doc.Properties.Stubs, sel)
	if err != nil {
		return "", StubResolveResult{}, err
	}

	stub := doc.Properties.Stubs[idx]
	want := doc.Properties
	want.Stubs = append([]types.Stub{}, want.Stubs...)

	switch res {
	case ResolutionMark:
		stub.SyncStatus = types.SyncResolved
		want.Stubs[idx] = stub
		err = doc.SetStubField(idx, "sync_status", string(types.SyncResolved))
	case ResolutionRemove:
		want.Stubs = append(want.Stubs[:idx], want.Stubs[idx+1:]...)
		err = doc.RemoveStub(idx)
	}
	if err != nil {
		return "", StubResolveResult{}, serializationError(err)
	}

	out, err := encodeAndVerify(doc, want)
	if err != nil {
		return "", StubResolveResult{}, err
	}
	return out, StubResolveResult{Index: idx, Stub: stub, Resolution: res}, nil
}

// UpdateStub changes fields of the selected stub, keeping the shape it was
// written in.
func (s *Switchboard) UpdateStub(text string, sel StubSelector, updates StubUpdates) (string, StubUpdateResult, error) {
	if updates.IsEmpty() {
		return "", StubUpdateResult{}, &Error{Kind: KindInvalidStub, Message: "no stub fields to update"}
	}

	doc, err := metadata.Decode(text, metadata.Options{})
	if err != nil {
		return "", StubUpdateResult{}, err
	}
	idx, err := selectStub(doc.Properties.Stubs, sel)
	if err != nil {
		return "", StubUpdateResult{}, err
	}

	prev := doc.Properties.Stubs[idx]
	next, edits := updates.apply(prev)
	if err := next.Validate(); err != nil {
		return "", StubUpdateResult{}, &Error{Kind: KindInvalidStub, Message: fmt.Sprintf("invalid update to stub %d", idx), Err: err}
	}
	for _, e := range edits {
		if err := doc.SetStubField(idx, e.field, e.value); err != nil {
			return "", StubUpdateResult{}, serializationError(err)
		}
	}

	want := doc.Properties
	want.Stubs = append([]types.Stub{}, want.Stubs...)
	want.Stubs[idx] = next
	out, err := encodeAndVerify(doc, want)
	if err != nil {
		return "", StubUpdateResult{}, err
	}
	return out, StubUpdateResult{Index: idx, Previous: prev, Stub: next}, nil
}

// selectStub returns the index of the stub sel picks.
func selectStub(stubs []types.Stub, sel StubSelector) (int, error) {
	if sel.Index != nil {
		i := *sel.Index
		if i < 0 || i >= len(stubs) {
			return 0, &Error{
				Kind:    KindNotFound,
				Message: fmt.Sprintf("no stub at index %d (document has %d stubs)", i, len(stubs)),
			}
		}
		return i, nil
	}

	prefix := strings.TrimSpace(sel.DescriptionPrefix)
	if prefix == "" {
		return 0, &Error{Kind: KindNotFound, Message: "empty stub selector"}
	}
	var hits []int
	for i, st := range stubs {
		if strings.HasPrefix(st.Description, prefix) {
			hits = append(hits, i)
		}
	}
	switch len(hits) {
	case 0:
		return 0, &Error{Kind: KindNotFound, Message: fmt.Sprintf("no stub matches %s", sel)}
	case 1:
		return hits[0], nil
	}
	return 0, &Error{
		Kind:    KindAmbiguous,
		Message: fmt.Sprintf("%s matches %d stubs (indices %v)", sel, len(hits), hits),
	}
}

// encodeAndVerify renders doc and decodes the result again; the decoded
// properties must equal want.
func encodeAndVerify(doc *metadata.Document, want types.L1Properties) (string, error) {
	out, err := doc.Encode()
	if err != nil {
		return "", serializationError(err)
	}
	check, err := metadata.Decode(out, metadata.Options{})
	if err != nil {
		return "", &Error{Kind: KindSerialization, Message: "re-encoded document does not decode", Err: err}
	}
	if !reflect.DeepEqual(normalize(check.Properties), normalize(want)) {
		return "", &Error{Kind: KindSerialization, Message: "re-encoded document does not round-trip"}
	}
	return out, nil
}

func normalize(p types.L1Properties) types.L1Properties {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Stubs == nil {
		p.Stubs = []types.Stub{}
	}
	if len(p.Extras) == 0 {
		p.Extras = nil
	}
	return p
}

func serializationError(err error) error {
	if errors.Is(err, metadata.ErrNotEditable) {
		return &Error{Kind: KindSerialization, Message: "cannot edit frontmatter", Err: err}
	}
	return &Error{Kind: KindSerialization, Message: "editing frontmatter", Err: err}
}

func withDefaults(s types.Stub) types.Stub {
	s.Description = strings.TrimSpace(s.Description)
	s.InlineAnchor = strings.TrimSpace(s.InlineAnchor)
	if s.StubForm == "" {
		s.StubForm = types.StubFormTransient
	}
	if s.Priority == "" {
		s.Priority = types.PriorityMedium
	}
	if s.StubOrigin == "" {
		s.StubOrigin = types.StubOriginAuthor
	}
	return s
}
