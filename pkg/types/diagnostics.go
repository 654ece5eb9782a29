// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Warning codes shared by the decoder, the linter, and the schema validator.
const (
	WarnMissingTitle        = "missing_title"
	WarnRefinedWithStubs    = "refined_with_stubs"
	WarnBlockingHighRefined = "blocking_high_refinement"
	WarnGateNotMet          = "audience_gate_not_met"
	WarnUnknownField        = "unknown_field"
)

// Warning is a non-fatal finding about a document.
type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`

	// Path is a JSON Pointer into the frontmatter ("" for the whole document).
	Path string `json:"path" yaml:"path"`

	Position   *SourcePosition `json:"position,omitempty" yaml:"position,omitempty"`
	Suggestion string          `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// SchemaError is a structural violation of the frontmatter schema.
type SchemaError struct {
	Message  string         `json:"message" yaml:"message"`
	Path     string         `json:"path" yaml:"path"`
	Position SourcePosition `json:"position" yaml:"position"`

	// Keyword is the schema keyword that failed, when one did.
	Keyword    string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// SchemaWarning is a warning reported by the schema validator.
type SchemaWarning = Warning

// ValidationResult is the outcome of validating a document.
type ValidationResult struct {
	IsValid  bool            `json:"is_valid" yaml:"is_valid"`
	Errors   []SchemaError   `json:"errors" yaml:"errors"`
	Warnings []SchemaWarning `json:"warnings" yaml:"warnings"`
}
