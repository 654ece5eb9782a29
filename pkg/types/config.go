// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HealthConfig weights the two terms of the health formula.
type HealthConfig struct {
	// RefinementWeight scales refinement (default 1.0).
	RefinementWeight float64 `json:"refinement_weight" yaml:"refinement_weight" mapstructure:"refinement_weight"`

	// StubWeight scales the aggregate stub penalty (default 1.0).
	StubWeight float64 `json:"stub_weight" yaml:"stub_weight" mapstructure:"stub_weight"`
}

// StubFormPenalties holds the refinement penalty of each stub form. Values are
// conventionally negative; the engine uses their magnitude.
type StubFormPenalties struct {
	Transient  float64 `json:"transient" yaml:"transient" mapstructure:"transient"`
	Persistent float64 `json:"persistent" yaml:"persistent" mapstructure:"persistent"`
	Blocking   float64 `json:"blocking" yaml:"blocking" mapstructure:"blocking"`
	Structural float64 `json:"structural" yaml:"structural" mapstructure:"structural"`
}

// For returns the penalty configured for form f.
func (p StubFormPenalties) For(f StubForm) float64 {
	switch f {
	case StubFormPersistent:
		return p.Persistent
	case StubFormBlocking:
		return p.Blocking
	case StubFormStructural:
		return p.Structural
	default:
		return p.Transient
	}
}

// PriorityMultipliers scales stub penalties and potential energy by priority.
type PriorityMultipliers struct {
	Low      float64 `json:"low" yaml:"low" mapstructure:"low"`
	Medium   float64 `json:"medium" yaml:"medium" mapstructure:"medium"`
	High     float64 `json:"high" yaml:"high" mapstructure:"high"`
	Critical float64 `json:"critical" yaml:"critical" mapstructure:"critical"`
}

// For returns the multiplier configured for priority p.
func (m PriorityMultipliers) For(p Priority) float64 {
	switch p {
	case PriorityLow:
		return m.Low
	case PriorityHigh:
		return m.High
	case PriorityCritical:
		return m.Critical
	default:
		return m.Medium
	}
}

// StubPenaltyConfig groups the per-form penalties and priority multipliers.
type StubPenaltyConfig struct {
	Forms               StubFormPenalties   `json:"forms" yaml:"forms" mapstructure:"forms"`
	PriorityMultipliers PriorityMultipliers `json:"priority_multipliers" yaml:"priority_multipliers" mapstructure:"priority_multipliers"`
}

// AudienceGates holds the minimum refinement for each audience. Gates must not
// decrease from personal to public.
type AudienceGates struct {
	Personal float64 `json:"personal" yaml:"personal" mapstructure:"personal"`
	Internal float64 `json:"internal" yaml:"internal" mapstructure:"internal"`
	Trusted  float64 `json:"trusted" yaml:"trusted" mapstructure:"trusted"`
	Public   float64 `json:"public" yaml:"public" mapstructure:"public"`
}

// For returns the gate configured for audience a.
func (g AudienceGates) For(a Audience) float64 {
	switch a {
	case AudiencePersonal:
		return g.Personal
	case AudienceTrusted:
		return g.Trusted
	case AudiencePublic:
		return g.Public
	default:
		return g.Internal
	}
}

// FormCadences holds the freshness half-life in days of each form. A cadence
// of 0 means the form never goes stale.
type FormCadences struct {
	Transient  float64 `json:"transient" yaml:"transient" mapstructure:"transient"`
	Developing float64 `json:"developing" yaml:"developing" mapstructure:"developing"`
	Stable     float64 `json:"stable" yaml:"stable" mapstructure:"stable"`
	Evergreen  float64 `json:"evergreen" yaml:"evergreen" mapstructure:"evergreen"`
	Canonical  float64 `json:"canonical" yaml:"canonical" mapstructure:"canonical"`
}

// For returns the cadence configured for form f.
func (c FormCadences) For(f Form) float64 {
	switch f {
	case FormTransient:
		return c.Transient
	case FormStable:
		return c.Stable
	case FormEvergreen:
		return c.Evergreen
	case FormCanonical:
		return c.Canonical
	default:
		return c.Developing
	}
}

// UnknownTrust is the trust level of an origin with no configured factor.
const UnknownTrust = 0.5

// TrustFactors holds the trust contributed by each origin.
type TrustFactors struct {
	Human       float64 `json:"human" yaml:"human" mapstructure:"human"`
	AIAssisted  float64 `json:"ai_assisted" yaml:"ai_assisted" mapstructure:"ai_assisted"`
	AIGenerated float64 `json:"ai_generated" yaml:"ai_generated" mapstructure:"ai_generated"`
	Imported    float64 `json:"imported" yaml:"imported" mapstructure:"imported"`
	Unknown     float64 `json:"unknown" yaml:"unknown" mapstructure:"unknown"`
}

// For returns the factor configured for origin o, or UnknownTrust when o is
// not a known origin.
func (t TrustFactors) For(o Origin) float64 {
	switch o {
	case OriginHuman:
		return t.Human
	case OriginAIAssisted:
		return t.AIAssisted
	case OriginAIGenerated:
		return t.AIGenerated
	case OriginImported:
		return t.Imported
	case OriginUnknown:
		return t.Unknown
	}
	return UnknownTrust
}

// FamilyWeights scales potential energy per vector family.
type FamilyWeights struct {
	Retrieval   float64 `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Computation float64 `json:"computation" yaml:"computation" mapstructure:"computation"`
	Synthesis   float64 `json:"synthesis" yaml:"synthesis" mapstructure:"synthesis"`
	Creation    float64 `json:"creation" yaml:"creation" mapstructure:"creation"`
	Structural  float64 `json:"structural" yaml:"structural" mapstructure:"structural"`
}

// For returns the weight configured for family f.
func (w FamilyWeights) For(f VectorFamily) float64 {
	switch f {
	case FamilyRetrieval:
		return w.Retrieval
	case FamilyComputation:
		return w.Computation
	case FamilySynthesis:
		return w.Synthesis
	case FamilyCreation:
		return w.Creation
	default:
		return w.Structural
	}
}

// VectorPhysicsConfig tunes the informational vector model.
type VectorPhysicsConfig struct {
	FamilyWeights FamilyWeights `json:"family_weights" yaml:"family_weights" mapstructure:"family_weights"`

	// FrictionBase is the friction of a family with no blocking stubs.
	FrictionBase float64 `json:"friction_base" yaml:"friction_base" mapstructure:"friction_base"`

	// BlockingFriction is added per blocking stub.
	BlockingFriction float64 `json:"blocking_friction" yaml:"blocking_friction" mapstructure:"blocking_friction"`
}

// CalculationConfig holds every tunable of the calculation engine.
type CalculationConfig struct {
	Health        HealthConfig        `json:"health" yaml:"health" mapstructure:"health"`
	StubPenalties StubPenaltyConfig   `json:"stub_penalties" yaml:"stub_penalties" mapstructure:"stub_penalties"`
	AudienceGates AudienceGates       `json:"audience_gates" yaml:"audience_gates" mapstructure:"audience_gates"`
	FormCadences  FormCadences        `json:"form_cadences" yaml:"form_cadences" mapstructure:"form_cadences"`
	TrustFactors  TrustFactors        `json:"trust_factors" yaml:"trust_factors" mapstructure:"trust_factors"`
	VectorPhysics VectorPhysicsConfig `json:"vector_physics" yaml:"vector_physics" mapstructure:"vector_physics"`
}
