// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Violation is one invalid configuration value.
type Violation struct {
	// Path is the dotted key of the value, e.g. "audience_gates.public".
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error reports every violation found in a merged configuration.
type Error struct {
	Violations []Violation `json:"violations"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Path == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = v.Path + ": " + v.Message
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks cfg and returns a *Error listing every violating path.
func Validate(cfg types.CalculationConfig) error {
	h := cfg.Health
	f := cfg.StubPenalties.Forms
	pm := cfg.StubPenalties.PriorityMultipliers
	c := cfg.FormCadences
	t := cfg.TrustFactors
	vp := cfg.VectorPhysics
	fw := vp.FamilyWeights

	errs := validation.Errors{
		"health": validation.ValidateStruct(&h,
			validation.Field(&h.RefinementWeight, unitInterval...),
			validation.Field(&h.StubWeight, unitInterval...),
		),
		"stub_penalties": validation.Errors{
			"forms": validation.ValidateStruct(&f,
				validation.Field(&f.Transient, penalty...),
				validation.Field(&f.Persistent, penalty...),
				validation.Field(&f.Blocking, penalty...),
				validation.Field(&f.Structural, penalty...),
			),
			"priority_multipliers": validation.ValidateStruct(&pm,
				validation.Field(&pm.Low, nonNegative...),
				validation.Field(&pm.Medium, nonNegative...),
				validation.Field(&pm.High, nonNegative...),
				validation.Field(&pm.Critical, nonNegative...),
			),
		}.Filter(),
		"audience_gates": validateGates(cfg.AudienceGates),
		"form_cadences": validation.ValidateStruct(&c,
			validation.Field(&c.Transient, nonNegative...),
			validation.Field(&c.Developing, nonNegative...),
			validation.Field(&c.Stable, nonNegative...),
			validation.Field(&c.Evergreen, nonNegative...),
			validation.Field(&c.Canonical, nonNegative...),
		),
		"trust_factors": validation.ValidateStruct(&t,
			validation.Field(&t.Human, unitInterval...),
			validation.Field(&t.AIAssisted, unitInterval...),
			validation.Field(&t.AIGenerated, unitInterval...),
			validation.Field(&t.Imported, unitInterval...),
			validation.Field(&t.Unknown, unitInterval...),
		),
		"vector_physics": validation.Errors{
			"family_weights": validation.ValidateStruct(&fw,
				validation.Field(&fw.Retrieval, nonNegative...),
				validation.Field(&fw.Computation, nonNegative...),
				validation.Field(&fw.Synthesis, nonNegative...),
				validation.Field(&fw.Creation, nonNegative...),
				validation.Field(&fw.Structural, nonNegative...),
			),
			"friction_base":     validation.Validate(vp.FrictionBase, nonNegative...),
			"blocking_friction": validation.Validate(vp.BlockingFriction, nonNegative...),
		}.Filter(),
	}.Filter()

	if errs == nil {
		return nil
	}
	var violations []Violation
	flatten("", errs, &violations)
	sort.Slice(violations, func(i, j int) bool { return violations[i].Path < violations[j].Path })
	return &Error{Violations: violations}
}

var (
	finite       = validation.By(checkFinite)
	unitInterval = []validation.Rule{finite, validation.Min(0.0), validation.Max(1.0)}
	nonNegative  = []validation.Rule{finite, validation.Min(0.0)}
	penalty      = []validation.Rule{finite, validation.Min(-1.0), validation.Max(0.0)}
)

func checkFinite(value any) error {
	f, ok := value.(float64)
	if !ok {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return validation.NewError("validation_not_finite", "must be a finite number")
	}
	return nil
}

// validateGates checks each gate is in [0, 1] and that gates never decrease
// from personal to public.
func validateGates(g types.AudienceGates) error {
	err := validation.ValidateStruct(&g,
		validation.Field(&g.Personal, unitInterval...),
		validation.Field(&g.Internal, unitInterval...),
		validation.Field(&g.Trusted, unitInterval...),
		validation.Field(&g.Public, unitInterval...),
	)
	errs := validation.Errors{}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for k, v := range fieldErrs {
			errs[k] = v
		}
	} else if err != nil {
		return err
	}

	for i := 1; i < len(types.Audiences); i++ {
		prev, cur := types.Audiences[i-1], types.Audiences[i]
		if _, bad := errs[string(cur)]; bad {
			continue
		}
		if g.For(cur) < g.For(prev) {
			errs[string(cur)] = validation.NewError("validation_gate_order",
				fmt.Sprintf("must be at least the %s gate (%.2f)", prev, g.For(prev)))
		}
	}
	return errs.Filter()
}

func flatten(prefix string, err error, out *[]Violation) {
	var nested validation.Errors
	if errors.As(err, &nested) {
		for k, v := range nested {
			flatten(join(prefix, k), v, out)
		}
		return
	}
	*out = append(*out, Violation{Path: prefix, Message: err.Error()})
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
