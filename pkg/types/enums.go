// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
	"strings"
)

// normalizeEnum lowercases and trims s and folds "_" and spaces to "-", so
// "AI_Assisted" and "ai-assisted" decode to the same value.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

// EnumError reports a value outside a closed enumeration.
type EnumError struct {
	Kind     string
	Value    string
	Expected []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unknown %s %q (expected one of %s)", e.Kind, e.Value, strings.Join(e.Expected, ", "))
}

func parseEnum[T ~string](kind, raw string, values []T) (T, error) {
	n := normalizeEnum(raw)
	for _, v := range values {
		if string(v) == n {
			return v, nil
		}
	}
	expected := make([]string, len(values))
	for i, v := range values {
		expected[i] = string(v)
	}
	var zero T
	return zero, &EnumError{Kind: kind, Value: raw, Expected: expected}
}

// Audience is the intended readership of a document.
type Audience string

const (
	AudiencePersonal Audience = "personal"
	AudienceInternal Audience = "internal"
	AudienceTrusted  Audience = "trusted"
	AudiencePublic   Audience = "public"
)

// Audiences lists audiences in gate order, narrowest first.
var Audiences = []Audience{AudiencePersonal, AudienceInternal, AudienceTrusted, AudiencePublic}

// ParseAudience decodes an audience case-insensitively.
func ParseAudience(s string) (Audience, error) { return parseEnum("audience", s, Audiences) }

// DefaultGate returns the built-in usefulness gate for the audience.
func (a Audience) DefaultGate() float64 {
	switch a {
	case AudiencePersonal:
		return 0.50
	case AudienceInternal:
		return 0.70
	case AudienceTrusted:
		return 0.80
	case AudiencePublic:
		return 0.90
	}
	return 0.70
}

// Form is the maturity class of a document; it controls how fast it goes stale.
type Form string

const (
	FormTransient  Form = "transient"
	FormDeveloping Form = "developing"
	FormStable     Form = "stable"
	FormEvergreen  Form = "evergreen"
	FormCanonical  Form = "canonical"
)

// Forms lists every document form.
var Forms = []Form{FormTransient, FormDeveloping, FormStable, FormEvergreen, FormCanonical}

// ParseForm decodes a form case-insensitively.
func ParseForm(s string) (Form, error) { return parseEnum("form", s, Forms) }

// DefaultCadence returns the staleness cadence in days. Canonical documents
// never go stale and report +Inf.
func (f Form) DefaultCadence() float64 {
	switch f {
	case FormTransient:
		return 7
	case FormDeveloping:
		return 30
	case FormStable:
		return 90
	case FormEvergreen:
		return 365
	case FormCanonical:
		return math.Inf(1)
	}
	return 30
}

// Origin classifies the provenance of a document.
type Origin string

const (
	OriginHuman       Origin = "human"
	OriginAIAssisted  Origin = "ai-assisted"
	OriginAIGenerated Origin = "ai-generated"
	OriginImported    Origin = "imported"
	OriginUnknown     Origin = "unknown"
)

// Origins lists every origin.
var Origins = []Origin{OriginHuman, OriginAIAssisted, OriginAIGenerated, OriginImported, OriginUnknown}

// ParseOrigin decodes an origin case-insensitively.
func ParseOrigin(s string) (Origin, error) { return parseEnum("origin", s, Origins) }

// VectorFamily groups stub types by the activity that remediates them.
type VectorFamily string

const (
	FamilyRetrieval   VectorFamily = "retrieval"
	FamilyComputation VectorFamily = "computation"
	FamilySynthesis   VectorFamily = "synthesis"
	FamilyCreation    VectorFamily = "creation"
	FamilyStructural  VectorFamily = "structural"
)

// VectorFamilies lists the families in report order.
var VectorFamilies = []VectorFamily{FamilyRetrieval, FamilyComputation, FamilySynthesis, FamilyCreation, FamilyStructural}

// StubType names the kind of gap a stub declares.
type StubType string

const (
	StubLink        StubType = "link"
	StubCitation    StubType = "citation"
	StubVerify      StubType = "verify"
	StubCalculation StubType = "calculation"
	StubBenchmark   StubType = "benchmark"
	StubSummarize   StubType = "summarize"
	StubCompare     StubType = "compare"
	StubDraft       StubType = "draft"
	StubExample     StubType = "example"
	StubRefactor    StubType = "refactor"
	StubReorganize  StubType = "reorganize"
)

// StubTypes lists every stub type, grouped by family.
var StubTypes = []StubType{
	StubLink, StubCitation, StubVerify,
	StubCalculation, StubBenchmark,
	StubSummarize, StubCompare,
	StubDraft, StubExample,
	StubRefactor, StubReorganize,
}

// ParseStubType decodes a stub type case-insensitively.
func ParseStubType(s string) (StubType, error) { return parseEnum("stub_type", s, StubTypes) }

// IsStubType reports whether s names a stub type.
func IsStubType(s string) bool {
	_, err := ParseStubType(s)
	return err == nil
}

// Family returns the vector family of the stub type.
func (t StubType) Family() VectorFamily {
	switch t {
	case StubLink, StubCitation, StubVerify:
		return FamilyRetrieval
	case StubCalculation, StubBenchmark:
		return FamilyComputation
	case StubSummarize, StubCompare:
		return FamilySynthesis
	case StubDraft, StubExample:
		return FamilyCreation
	default:
		return FamilyStructural
	}
}

// StubForm describes how a stub affects the document it sits in.
type StubForm string

const (
	StubFormTransient  StubForm = "transient"
	StubFormPersistent StubForm = "persistent"
	StubFormBlocking   StubForm = "blocking"
	StubFormStructural StubForm = "structural"
)

// StubForms lists every stub form.
var StubForms = []StubForm{StubFormTransient, StubFormPersistent, StubFormBlocking, StubFormStructural}

// ParseStubForm decodes a stub form case-insensitively.
func ParseStubForm(s string) (StubForm, error) { return parseEnum("stub_form", s, StubForms) }

// IsBlocking reports whether stubs of this form block publication.
func (f StubForm) IsBlocking() bool {
	return f == StubFormBlocking || f == StubFormStructural
}

// DefaultPenalty returns the built-in refinement penalty (negative).
func (f StubForm) DefaultPenalty() float64 {
	switch f {
	case StubFormTransient:
		return -0.02
	case StubFormPersistent:
		return -0.05
	case StubFormBlocking:
		return -0.10
	case StubFormStructural:
		return -0.15
	}
	return -0.02
}

// Priority is the urgency of a stub.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists priorities, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority decodes a priority case-insensitively.
func ParsePriority(s string) (Priority, error) { return parseEnum("priority", s, Priorities) }

// DefaultMultiplier returns the built-in penalty multiplier.
func (p Priority) DefaultMultiplier() float64 {
	switch p {
	case PriorityLow:
		return 0.5
	case PriorityMedium:
		return 1.0
	case PriorityHigh:
		return 1.5
	case PriorityCritical:
		return 2.0
	}
	return 1.0
}

// StubOrigin records who or what declared a stub.
type StubOrigin string

const (
	StubOriginAuthor         StubOrigin = "author"
	StubOriginQADetected     StubOrigin = "qa-detected"
	StubOriginReviewFeedback StubOrigin = "review-feedback"
	StubOriginAutoDiscovery  StubOrigin = "auto-discovery"
)

// StubOrigins lists every stub origin.
var StubOrigins = []StubOrigin{StubOriginAuthor, StubOriginQADetected, StubOriginReviewFeedback, StubOriginAutoDiscovery}

// ParseStubOrigin decodes a stub origin case-insensitively.
func ParseStubOrigin(s string) (StubOrigin, error) { return parseEnum("stub_origin", s, StubOrigins) }

// SyncStatus tracks a stub through remediation.
type SyncStatus string

const (
	SyncPending    SyncStatus = "pending"
	SyncInProgress SyncStatus = "in-progress"
	SyncResolved   SyncStatus = "resolved"
	SyncCancelled  SyncStatus = "cancelled"
)

// SyncStatuses lists every sync status.
var SyncStatuses = []SyncStatus{SyncPending, SyncInProgress, SyncResolved, SyncCancelled}

// ParseSyncStatus decodes a sync status case-insensitively.
func ParseSyncStatus(s string) (SyncStatus, error) { return parseEnum("sync_status", s, SyncStatuses) }

// IsClosed reports whether the status ends the stub's life.
func (s SyncStatus) IsClosed() bool {
	return s == SyncResolved || s == SyncCancelled
}
