// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Usefulness compares a document's refinement to its audience gate.
type Usefulness struct {
	// Margin is refinement minus gate, clamped to [-1, 1].
	Margin float64 `json:"margin" yaml:"margin"`

	// IsUseful is true when refinement >= gate.
	IsUseful bool `json:"is_useful" yaml:"is_useful"`

	Gate       float64    `json:"gate" yaml:"gate"`
	Refinement Refinement `json:"refinement" yaml:"refinement"`
	Audience   Audience   `json:"audience" yaml:"audience"`
}

// StateDimensions are the L2 values derived from a single document.
type StateDimensions struct {
	// Health is refinement minus the stub penalty, in [0, 1].
	Health float64 `json:"health" yaml:"health"`

	Usefulness Usefulness `json:"usefulness" yaml:"usefulness"`

	// Freshness decays with a half-life equal to the form's cadence, in [0, 1].
	Freshness float64 `json:"freshness" yaml:"freshness"`

	// TrustLevel is the configured trust factor of the document's origin.
	TrustLevel float64 `json:"trust_level" yaml:"trust_level"`
}

// FamilyVector is the remediation demand of one vector family.
type FamilyVector struct {
	Family          VectorFamily `json:"family" yaml:"family"`
	StubCount       int          `json:"stub_count" yaml:"stub_count"`
	BlockingCount   int          `json:"blocking_count" yaml:"blocking_count"`
	PotentialEnergy float64      `json:"potential_energy" yaml:"potential_energy"`
	Friction        float64      `json:"friction" yaml:"friction"`
	Magnitude       float64      `json:"magnitude" yaml:"magnitude"`
}

// VectorPhysics summarizes open stubs as per-family and aggregate vectors.
// All values are informational.
type VectorPhysics struct {
	Families  []FamilyVector `json:"families" yaml:"families"`
	Aggregate FamilyVector   `json:"aggregate" yaml:"aggregate"`

	// RemainingWork is the priority-weighted count of open stubs.
	RemainingWork float64 `json:"remaining_work" yaml:"remaining_work"`
}

// NetworkDimensions will hold graph-derived values. Always zero for now.
type NetworkDimensions struct {
	Centrality   float64 `json:"centrality" yaml:"centrality"`
	InboundRefs  int     `json:"inbound_refs" yaml:"inbound_refs"`
	OutboundRefs int     `json:"outbound_refs" yaml:"outbound_refs"`
}

// TrajectoryDimensions will hold history-derived values. Always zero for now.
type TrajectoryDimensions struct {
	Velocity     float64 `json:"velocity" yaml:"velocity"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
}

// PriorityDimensions will hold cross-document ranking. Always zero for now.
type PriorityDimensions struct {
	Score float64 `json:"score" yaml:"score"`
	Rank  int     `json:"rank" yaml:"rank"`
}

// L2Dimensions groups every value derived from a document's L1 properties.
type L2Dimensions struct {
	State StateDimensions `json:"state" yaml:"state"`

	// StubPenalty is the aggregate penalty of open stubs, in [0, 1].
	StubPenalty float64 `json:"stub_penalty" yaml:"stub_penalty"`

	// RefinementLabel is the coarse band of the refinement.
	RefinementLabel string `json:"refinement_label" yaml:"refinement_label"`

	Physics    VectorPhysics        `json:"physics" yaml:"physics"`
	Network    NetworkDimensions    `json:"network" yaml:"network"`
	Trajectory TrajectoryDimensions `json:"trajectory" yaml:"trajectory"`
	Priority   PriorityDimensions   `json:"priority" yaml:"priority"`
}
