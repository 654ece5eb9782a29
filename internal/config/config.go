// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds a validated CalculationConfig from layered sources.
//
// Layers fold left to right: built-in defaults, then the user's file, then
// per-invocation overrides. Nested sections merge key by key; leaf values
// replace. Validation runs once, on the merged result, and reports every
// violating path.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Section is the key under which a user config file holds calculation
// settings. Files without it are read as a bare calculation config.
const Section = "calculation"

// Layer is one source of configuration values.
type Layer struct {
	// Name identifies the layer in error messages ("defaults", a file path,
	// "--set").
	Name string

	// Values is a nested map keyed by the canonical field names.
	Values map[string]any
}

// Options controls merging.
type Options struct {
	// Strict reports keys that match no configuration field.
	Strict bool
}

// Defaults returns the built-in configuration.
func Defaults() types.CalculationConfig {
	return types.CalculationConfig{
		Health: types.HealthConfig{RefinementWeight: 1.0, StubWeight: 1.0},
		StubPenalties: types.StubPenaltyConfig{
			Forms: types.StubFormPenalties{
				Transient:  types.StubFormTransient.DefaultPenalty(),
				Persistent: types.StubFormPersistent.DefaultPenalty(),
				Blocking:   types.StubFormBlocking.DefaultPenalty(),
				Structural: types.StubFormStructural.DefaultPenalty(),
			},
			PriorityMultipliers: types.PriorityMultipliers{
				Low:      types.PriorityLow.DefaultMultiplier(),
				Medium:   types.PriorityMedium.DefaultMultiplier(),
				High:     types.PriorityHigh.DefaultMultiplier(),
				Critical: types.PriorityCritical.DefaultMultiplier(),
			},
		},
		AudienceGates: types.AudienceGates{
			Personal: types.AudiencePersonal.DefaultGate(),
			Internal: types.AudienceInternal.DefaultGate(),
			Trusted:  types.AudienceTrusted.DefaultGate(),
			Public:   types.AudiencePublic.DefaultGate(),
		},
		// Canonical is 0: never stale.
		FormCadences: types.FormCadences{
			Transient:  types.FormTransient.DefaultCadence(),
			Developing: types.FormDeveloping.DefaultCadence(),
			Stable:     types.FormStable.DefaultCadence(),
			Evergreen:  types.FormEvergreen.DefaultCadence(),
			Canonical:  0,
		},
		TrustFactors: types.TrustFactors{
			Human:       1.0,
			AIAssisted:  0.8,
			AIGenerated: 0.6,
			Imported:    0.7,
			Unknown:     types.UnknownTrust,
		},
		VectorPhysics: types.VectorPhysicsConfig{
			FamilyWeights: types.FamilyWeights{
				Retrieval:   1.0,
				Computation: 1.0,
				Synthesis:   1.0,
				Creation:    1.0,
				Structural:  1.0,
			},
			FrictionBase:     0.1,
			BlockingFriction: 0.25,
		},
	}
}

// DefaultLayer returns Defaults as a layer.
func DefaultLayer() Layer {
	m, err := ToMap(Defaults())
	if err != nil {
		// Defaults is a fixed struct of float64 fields; encoding cannot fail.
		panic(fmt.Sprintf("encoding default config: %v", err))
	}
	return Layer{Name: "defaults", Values: m}
}

// ToMap converts a config to the nested map form used by layers.
func ToMap(cfg types.CalculationConfig) (map[string]any, error) {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return m, nil
}

// Merge folds layers over the built-in defaults and validates the result.
// Callers pass only the user and invocation layers; defaults are implied.
func Merge(layers []Layer, opts Options) (types.CalculationConfig, error) {
	v := viper.New()
	all := append([]Layer{DefaultLayer()}, layers...)
	for _, l := range all {
		if len(l.Values) == 0 {
			continue
		}
		if err := v.MergeConfigMap(copyMap(l.Values)); err != nil {
			return types.CalculationConfig{}, fmt.Errorf("merging layer %s: %w", l.Name, err)
		}
	}

	var (
		cfg types.CalculationConfig
		md  mapstructure.Metadata
	)
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.Metadata = &md
	})
	if err != nil {
		return types.CalculationConfig{}, &Error{Violations: []Violation{{Message: err.Error()}}}
	}

	var violations []Violation
	if opts.Strict && len(md.Unused) > 0 {
		unused := append([]string(nil), md.Unused...)
		sort.Strings(unused)
		for _, key := range unused {
			violations = append(violations, Violation{Path: key, Message: "unknown configuration key"})
		}
	}
	if err := Validate(cfg); err != nil {
		violations = append(violations, err.(*Error).Violations...)
	}
	if len(violations) > 0 {
		return types.CalculationConfig{}, &Error{Violations: violations}
	}
	return cfg, nil
}

// LoadFile reads a YAML config file from fsys as a layer. When the file has
// a top-level calculation section, only that section is used.
func LoadFile(fsys afero.Fs, path string) (Layer, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Layer{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	values := v.AllSettings()
	if sub, ok := values[Section].(map[string]any); ok {
		values = sub
	}
	return Layer{Name: path, Values: values}, nil
}

// ParseOverrides turns "path.to.key=value" assignments into one layer.
// Values are parsed as YAML scalars, so "0.5" is a number.
func ParseOverrides(assignments []string) (Layer, error) {
	values := map[string]any{}
	for _, a := range assignments {
		key, raw, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Layer{}, fmt.Errorf("invalid override %q: expected path=value", a)
		}
		var val any
		if err := yaml.Unmarshal([]byte(raw), &val); err != nil {
			return Layer{}, fmt.Errorf("invalid override %q: %w", a, err)
		}
		if val == nil {
			return Layer{}, fmt.Errorf("invalid override %q: missing value", a)
		}
		if err := setPath(values, strings.Split(strings.ToLower(key), "."), val); err != nil {
			return Layer{}, fmt.Errorf("invalid override %q: %w", a, err)
		}
	}
	return Layer{Name: "--set", Values: values}, nil
}

func setPath(m map[string]any, path []string, val any) error {
	for i, p := range path {
		if p == "" {
			return fmt.Errorf("empty path segment")
		}
		if i == len(path)-1 {
			m[p] = val
			return nil
		}
		next, ok := m[p].(map[string]any)
		if !ok {
			if _, exists := m[p]; exists {
				return fmt.Errorf("%s is both a value and a section", strings.Join(path[:i+1], "."))
			}
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	return nil
}

// copyMap deep-copies nested maps; viper may modify the map it merges.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			v = copyMap(sub)
		}
		out[k] = v
	}
	return out
}
