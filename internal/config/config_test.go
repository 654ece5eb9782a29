// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))

	cfg, err := Merge(nil, Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestMerge_Layering(t *testing.T) {
	user := Layer{Name: "user", Values: map[string]any{
		"audience_gates": map[string]any{"public": 0.95},
		"health":         map[string]any{"stub_weight": 0.5},
	}}
	invocation := Layer{Name: "--set", Values: map[string]any{
		"audience_gates": map[string]any{"public": 0.92},
	}}

	cfg, err := Merge([]Layer{user, invocation}, Options{})
	require.NoError(t, err)

	assert.InDelta(t, 0.92, cfg.AudienceGates.Public, 1e-12)
	// Siblings of an overridden leaf keep their defaults.
	assert.InDelta(t, 0.80, cfg.AudienceGates.Trusted, 1e-12)
	assert.InDelta(t, 0.5, cfg.Health.StubWeight, 1e-12)
	assert.InDelta(t, 1.0, cfg.Health.RefinementWeight, 1e-12)
	assert.Equal(t, Defaults().TrustFactors, cfg.TrustFactors)
}

func TestMerge_DoesNotMutateLayers(t *testing.T) {
	values := map[string]any{"health": map[string]any{"stub_weight": 0.25}}
	_, err := Merge([]Layer{{Name: "user", Values: values}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"health": map[string]any{"stub_weight": 0.25}}, values)
}

func TestMerge_ReportsEveryViolation(t *testing.T) {
	user := Layer{Name: "user", Values: map[string]any{
		"health":         map[string]any{"refinement_weight": 1.5},
		"audience_gates": map[string]any{"trusted": 0.6},
		"trust_factors":  map[string]any{"human": -0.1},
		"stub_penalties": map[string]any{"forms": map[string]any{"blocking": 0.3}},
		"form_cadences":  map[string]any{"stable": -1},
	}}
	_, err := Merge([]Layer{user}, Options{})
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	paths := make([]string, len(cfgErr.Violations))
	for i, v := range cfgErr.Violations {
		paths[i] = v.Path
	}
	assert.Equal(t, []string{
		"audience_gates.trusted",
		"form_cadences.stable",
		"health.refinement_weight",
		"stub_penalties.forms.blocking",
		"trust_factors.human",
	}, paths)
	assert.Contains(t, err.Error(), "internal gate")
}

func TestMerge_StrictUnknownKeys(t *testing.T) {
	user := Layer{Name: "user", Values: map[string]any{
		"health": map[string]any{"stub_weight": 0.5, "bogus": 1},
		"extra":  true,
	}}

	_, err := Merge([]Layer{user}, Options{})
	require.NoError(t, err)

	_, err = Merge([]Layer{user}, Options{Strict: true})
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	require.Len(t, cfgErr.Violations, 2)
	assert.Equal(t, "extra", cfgErr.Violations[0].Path)
	assert.Equal(t, "health.bogus", cfgErr.Violations[1].Path)
}

func TestValidate_GateOrder(t *testing.T) {
	cfg := Defaults()
	cfg.AudienceGates = types.AudienceGates{Personal: 0.9, Internal: 0.5, Trusted: 0.5, Public: 0.95}
	err := Validate(cfg)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	require.Len(t, cfgErr.Violations, 1)
	assert.Equal(t, "audience_gates.internal", cfgErr.Violations[0].Path)
}

func TestParseOverrides(t *testing.T) {
	layer, err := ParseOverrides([]string{
		"audience_gates.public=0.85",
		"Health.Stub_Weight = 0.4",
		"vector_physics.family_weights.retrieval=2",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"audience_gates": map[string]any{"public": 0.85},
		"health":         map[string]any{"stub_weight": 0.4},
		"vector_physics": map[string]any{"family_weights": map[string]any{"retrieval": 2}},
	}, layer.Values)

	cfg, err := Merge([]Layer{layer}, Options{Strict: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.85, cfg.AudienceGates.Public, 1e-12)
	assert.InDelta(t, 2.0, cfg.VectorPhysics.FamilyWeights.Retrieval, 1e-12)

	for _, bad := range []string{"no-equals", "=1", "a..b=1", "x=[unclosed"} {
		_, err := ParseOverrides([]string{bad})
		assert.Error(t, err, bad)
	}
	_, err = ParseOverrides([]string{"health=1", "health.stub_weight=2"})
	assert.Error(t, err)

	for _, empty := range []string{"health.stub_weight=", "health.stub_weight=  ", "health.stub_weight=null", "health.stub_weight=~"} {
		_, err := ParseOverrides([]string{empty})
		require.Error(t, err, empty)
		assert.Contains(t, err.Error(), "missing value", empty)
	}
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/docdim.yaml", []byte(`
calculation:
  audience_gates:
    public: 0.95
  form_cadences:
    developing: 14
vault: /notes
`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/bare.yaml", []byte("health:\n  stub_weight: 0.3\n"), 0o644))

	layer, err := LoadFile(fs, "/cfg/docdim.yaml")
	require.NoError(t, err)
	cfg, err := Merge([]Layer{layer}, Options{Strict: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.95, cfg.AudienceGates.Public, 1e-12)
	assert.InDelta(t, 14.0, cfg.FormCadences.Developing, 1e-12)

	layer, err = LoadFile(fs, "/cfg/bare.yaml")
	require.NoError(t, err)
	cfg, err = Merge([]Layer{layer}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, cfg.Health.StubWeight, 1e-12)

	_, err = LoadFile(fs, "/cfg/missing.yaml")
	assert.Error(t, err)
}

func TestToMap(t *testing.T) {
	m, err := ToMap(Defaults())
	require.NoError(t, err)
	gates, ok := m["audience_gates"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.9, gates["public"])
}
