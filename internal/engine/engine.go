// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine computes L2 dimensions from L1 properties.
//
// Every function is pure: it reads its arguments, returns new values, and
// never fails on well-typed input. Results are clamped to their declared
// ranges.
package engine

import (
	"fmt"
	"math"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// CalculationError reports a configuration value the engine cannot compute
// with, such as a negative cadence.
type CalculationError struct {
	Field   string
	Value   float64
	Message string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Field, e.Value, e.Message)
}

// StubPenalty returns the aggregate penalty of the open stubs, in [0, 1].
// Each stub contributes |form penalty| x priority multiplier.
func StubPenalty(stubs []types.Stub, cfg types.StubPenaltyConfig) float64 {
	var p float64
	for _, s := range stubs {
		if !s.IsOpen() {
			continue
		}
		p += math.Abs(cfg.Forms.For(s.StubForm)) * cfg.PriorityMultipliers.For(s.Priority)
	}
	return clamp(p, 0, 1)
}

// Health returns refinement weighed against the stub penalty, in [0, 1].
func Health(p types.L1Properties, cfg types.CalculationConfig) float64 {
	penalty := StubPenalty(p.Stubs, cfg.StubPenalties)
	h := cfg.Health.RefinementWeight*p.Refinement.Float() - cfg.Health.StubWeight*math.Min(penalty, 1)
	return clamp(h, 0, 1)
}

// Usefulness compares refinement r to the gate of audience a.
func Usefulness(r types.Refinement, a types.Audience, gates types.AudienceGates) types.Usefulness {
	g := gates.For(a)
	return types.Usefulness{
		Margin:     clamp(r.Float()-g, -1, 1),
		IsUseful:   r.Float() >= g,
		Gate:       g,
		Refinement: r,
		Audience:   a,
	}
}

// Freshness returns exp(-ln2 * days / cadence) for the cadence of form f.
// A nil days (no known update time), a zero cadence, or an infinite cadence
// yield 1.0. A negative or NaN cadence is a *CalculationError.
func Freshness(days *float64, f types.Form, cadences types.FormCadences) (float64, error) {
	c := cadences.For(f)
	if math.IsNaN(c) || c < 0 {
		return 0, &CalculationError{
			Field:   "form_cadences." + string(f),
			Value:   c,
			Message: "cadence must be a non-negative number of days",
		}
	}
	if days == nil || c == 0 || math.IsInf(c, 1) {
		return 1, nil
	}
	d := *days
	if math.IsNaN(d) || d <= 0 {
		return 1, nil
	}
	return clamp(math.Exp(-math.Ln2*d/c), 0, 1), nil
}

// Trust returns the configured trust factor of origin o, in [0, 1].
func Trust(o types.Origin, factors types.TrustFactors) float64 {
	return clamp(factors.For(o), 0, 1)
}

// State computes the state dimensions of a document.
func State(p types.L1Properties, cfg types.CalculationConfig, days *float64) (types.StateDimensions, error) {
	fresh, err := Freshness(days, p.Form, cfg.FormCadences)
	if err != nil {
		return types.StateDimensions{}, err
	}
	return types.StateDimensions{
		Health:     Health(p, cfg),
		Usefulness: Usefulness(p.Refinement, p.Audience, cfg.AudienceGates),
		Freshness:  fresh,
		TrustLevel: Trust(p.Origin, cfg.TrustFactors),
	}, nil
}

// Dimensions computes every L2 dimension of a document. Network, trajectory,
// and priority dimensions need more than one document and are left zero.
func Dimensions(p types.L1Properties, cfg types.CalculationConfig, days *float64) (types.L2Dimensions, error) {
	state, err := State(p, cfg, days)
	if err != nil {
		return types.L2Dimensions{}, err
	}
	return types.L2Dimensions{
		State:           state,
		StubPenalty:     StubPenalty(p.Stubs, cfg.StubPenalties),
		RefinementLabel: p.Refinement.Label(),
		Physics:         Physics(p.Stubs, cfg),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
