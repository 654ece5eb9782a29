// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared by the decoder, the calculation
// engine, and the adapters: L1 properties, stubs, L2 dimensions, diagnostics,
// and the calculation config.
package types

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Refinement is the author's assessment of document quality, in [0, 1].
type Refinement float64

// NewRefinement rejects values outside [0, 1], including NaN.
func NewRefinement(v float64) (Refinement, error) {
	if !(v >= 0 && v <= 1) {
		return 0, fmt.Errorf("refinement %v out of range [0, 1]", v)
	}
	return Refinement(v), nil
}

// Float returns the refinement as a float64.
func (r Refinement) Float() float64 { return float64(r) }

// Label returns the coarse quality band of the refinement.
func (r Refinement) Label() string {
	switch {
	case r < 0.30:
		return "Poor"
	case r < 0.50:
		return "Weak"
	case r < 0.70:
		return "Moderate"
	case r < 0.90:
		return "Good"
	default:
		return "Excellent"
	}
}

// Stub is a declared gap in a document. Every input shape decodes to this one
// canonical form.
type Stub struct {
	// StubType names the kind of gap (link, verify, draft, ...).
	StubType StubType `json:"stub_type" yaml:"stub_type"`

	// StubForm controls the refinement penalty. Defaults to transient.
	StubForm StubForm `json:"stub_form" yaml:"stub_form"`

	// Priority scales the penalty. Defaults to medium.
	Priority Priority `json:"priority" yaml:"priority"`

	// Description says what is missing. Never empty.
	Description string `json:"description" yaml:"description"`

	// StubOrigin records who declared the stub. Defaults to author.
	StubOrigin StubOrigin `json:"stub_origin" yaml:"stub_origin"`

	// InlineAnchor optionally points at a ^anchor in the document body.
	InlineAnchor string `json:"inline_anchor,omitempty" yaml:"inline_anchor,omitempty"`

	// SyncStatus optionally tracks remediation progress.
	SyncStatus SyncStatus `json:"sync_status,omitempty" yaml:"sync_status,omitempty"`
}

// NewStub returns a stub with the default form, priority, and origin.
func NewStub(t StubType, description string) Stub {
	return Stub{
		StubType:    t,
		StubForm:    StubFormTransient,
		Priority:    PriorityMedium,
		Description: description,
		StubOrigin:  StubOriginAuthor,
	}
}

// IsBlocking reports whether the stub's form blocks publication.
func (s Stub) IsBlocking() bool { return s.StubForm.IsBlocking() }

// IsOpen reports whether the stub still counts against the document.
func (s Stub) IsOpen() bool { return !s.SyncStatus.IsClosed() }

// Validate checks that every field holds a known value.
func (s Stub) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.StubType, validation.Required, validation.In(anySlice(StubTypes)...)),
		validation.Field(&s.StubForm, validation.Required, validation.In(anySlice(StubForms)...)),
		validation.Field(&s.Priority, validation.Required, validation.In(anySlice(Priorities)...)),
		validation.Field(&s.Description, validation.Required),
		validation.Field(&s.StubOrigin, validation.Required, validation.In(anySlice(StubOrigins)...)),
		validation.Field(&s.SyncStatus, validation.In(anySlice(SyncStatuses)...)),
	)
}

func anySlice[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// L1Properties are the intrinsic properties stored in a document's frontmatter.
type L1Properties struct {
	// Title is optional; its absence produces a warning.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Refinement is the quality score in [0, 1]. Defaults to 0.
	Refinement Refinement `json:"refinement" yaml:"refinement"`

	// Audience defaults to internal.
	Audience Audience `json:"audience" yaml:"audience"`

	// Form defaults to developing.
	Form Form `json:"form" yaml:"form"`

	// Origin defaults to unknown.
	Origin Origin `json:"origin" yaml:"origin"`

	// Tags are free-form labels in source order.
	Tags []string `json:"tags" yaml:"tags"`

	// Stubs are the declared gaps in source order.
	Stubs []Stub `json:"stubs" yaml:"stubs"`

	// Extras preserves unknown top-level keys.
	Extras map[string]any `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// DefaultProperties returns the properties of a document with no metadata.
func DefaultProperties() L1Properties {
	return L1Properties{
		Refinement: 0,
		Audience:   AudienceInternal,
		Form:       FormDeveloping,
		Origin:     OriginUnknown,
		Tags:       []string{},
		Stubs:      []Stub{},
	}
}

// OpenStubs returns the stubs that are neither resolved nor cancelled.
func (p L1Properties) OpenStubs() []Stub {
	var open []Stub
	for _, s := range p.Stubs {
		if s.IsOpen() {
			open = append(open, s)
		}
	}
	return open
}

// SourcePosition is a 1-based location in a document. Column counts Unicode
// code points, not bytes.
type SourcePosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p SourcePosition) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
