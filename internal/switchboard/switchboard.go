// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package switchboard is the single entry point adapters use. It combines the
// metadata decoder and writer, the schema validator, the calculation engine,
// and an optional document repository.
// Implements: parse_document, analyze_document, validate_document, add_stub,
// resolve_stub, update_stub, calculate_health, find_anchor_matches;
// file operations over a repository.
//
// A Switchboard is read-only after construction and safe for concurrent use.
package switchboard

import (
	"fmt"
	"time"

	"github.com/pdiddy/doc-dimensions/internal/anchors"
	"github.com/pdiddy/doc-dimensions/internal/config"
	"github.com/pdiddy/doc-dimensions/internal/engine"
	"github.com/pdiddy/doc-dimensions/internal/metadata"
	"github.com/pdiddy/doc-dimensions/internal/repository"
	"github.com/pdiddy/doc-dimensions/internal/schema"
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// Config holds the collaborators of a Switchboard.
type Config struct {
	// Calculation is the merged calculation config. It is validated by New.
	Calculation types.CalculationConfig

	// Repository backs the file operations. May be nil.
	Repository repository.Repository

	// Now is the clock used to derive days since update. Defaults to
	// time.Now.
	Now func() time.Time
}

// Switchboard exposes the document operations.
type Switchboard struct {
	cfg       types.CalculationConfig
	validator *schema.Validator
	repo      repository.Repository
	now       func() time.Time
}

// New validates cfg.Calculation and compiles the schemas.
func New(cfg Config) (*Switchboard, error) {
	if err := config.Validate(cfg.Calculation); err != nil {
		return nil, err
	}
	v, err := schema.NewValidator(cfg.Calculation)
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Switchboard{
		cfg:       cfg.Calculation,
		validator: v,
		repo:      cfg.Repository,
		now:       now,
	}, nil
}

// Config returns the calculation config the switchboard was built with.
func (s *Switchboard) Config() types.CalculationConfig { return s.cfg }

// ParseDocument decodes the frontmatter of text.
func (s *Switchboard) ParseDocument(text string) (types.L1Properties, error) {
	doc, err := metadata.Decode(text, metadata.Options{})
	if err != nil {
		return types.L1Properties{}, err
	}
	return doc.Properties, nil
}

// AnalyzeOptions controls AnalyzeDocument.
type AnalyzeOptions struct {
	// DaysSinceUpdate drives freshness. Nil means the age is unknown and
	// the document is treated as fresh.
	DaysSinceUpdate *float64

	// Strict adds unknown-key warnings.
	Strict bool
}

// Analysis is the result of analyzing one document.
type Analysis struct {
	Properties types.L1Properties `json:"properties"`
	Dimensions types.L2Dimensions `json:"dimensions"`
	Warnings   []types.Warning    `json:"warnings"`
}

// AnalyzeDocument decodes text and derives its dimensions and warnings.
func (s *Switchboard) AnalyzeDocument(text string, opts AnalyzeOptions) (Analysis, error) {
	doc, err := metadata.Decode(text, metadata.Options{Strict: opts.Strict})
	if err != nil {
		return Analysis{}, &AnalysisError{Err: err}
	}
	dims, err := engine.Dimensions(doc.Properties, s.cfg, opts.DaysSinceUpdate)
	if err != nil {
		return Analysis{}, &AnalysisError{Err: err}
	}
	warnings := make([]types.Warning, 0, len(doc.Warnings))
	warnings = append(warnings, doc.Warnings...)
	warnings = append(warnings, engine.Lint(doc.Properties, s.cfg, doc.Positions)...)
	return Analysis{
		Properties: doc.Properties,
		Dimensions: dims,
		Warnings:   warnings,
	}, nil
}

// ValidateDocument checks text against the frontmatter schema.
func (s *Switchboard) ValidateDocument(text string, strict bool) types.ValidationResult {
	return s.validator.Validate(text, strict)
}

// CalculateHealth returns the health of p under the switchboard's config.
func (s *Switchboard) CalculateHealth(p types.L1Properties) float64 {
	return engine.Health(p, s.cfg)
}

// FindAnchorMatches locates ^anchor tokens in the body of text.
func (s *Switchboard) FindAnchorMatches(text, anchor string) anchors.Matches {
	return anchors.Find(text, anchor)
}
