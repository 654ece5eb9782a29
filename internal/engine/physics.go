// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"math"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Physics summarizes the open stubs as one vector per family plus an
// aggregate. Families are always reported in types.VectorFamilies order,
// including empty ones.
func Physics(stubs []types.Stub, cfg types.CalculationConfig) types.VectorPhysics {
	vp := cfg.VectorPhysics
	mult := cfg.StubPenalties.PriorityMultipliers

	byFamily := make(map[types.VectorFamily]*types.FamilyVector, len(types.VectorFamilies))
	out := types.VectorPhysics{Families: make([]types.FamilyVector, len(types.VectorFamilies))}
	for i, f := range types.VectorFamilies {
		out.Families[i].Family = f
		byFamily[f] = &out.Families[i]
	}

	for _, s := range stubs {
		if !s.IsOpen() {
			continue
		}
		fv := byFamily[s.StubType.Family()]
		m := mult.For(s.Priority)
		fv.StubCount++
		fv.PotentialEnergy += m
		if s.IsBlocking() {
			fv.BlockingCount++
		}
		out.RemainingWork += m
	}

	agg := types.FamilyVector{Family: "aggregate"}
	for i := range out.Families {
		fv := &out.Families[i]
		fv.PotentialEnergy *= vp.FamilyWeights.For(fv.Family)
		fv.Friction = vp.FrictionBase + vp.BlockingFriction*float64(fv.BlockingCount)
		fv.Magnitude = magnitude(fv.PotentialEnergy, fv.Friction)

		agg.StubCount += fv.StubCount
		agg.BlockingCount += fv.BlockingCount
		agg.PotentialEnergy += fv.PotentialEnergy
	}
	agg.Friction = vp.FrictionBase + vp.BlockingFriction*float64(agg.BlockingCount)
	agg.Magnitude = magnitude(agg.PotentialEnergy, agg.Friction)
	out.Aggregate = agg
	return out
}

// ForecastCompletion estimates how long the open stubs will take to clear at
// velocity units of work per day. A non-positive velocity never finishes and
// returns +Inf.
func ForecastCompletion(stubs []types.Stub, cfg types.CalculationConfig, velocity float64) float64 {
	if !(velocity > 0) {
		return math.Inf(1)
	}
	return Physics(stubs, cfg).RemainingWork / velocity
}

func magnitude(energy, friction float64) float64 {
	return math.Sqrt(energy * energy / (1 + friction*friction))
}
