// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema validates document frontmatter against embedded JSON
// Schemas and reports structured errors with source positions.
package schema

import (
	"embed"
	"fmt"
)

// Version is the semantic version of the embedded schemas.
const Version = "1.0.0"

// Schema resource URLs. They match the $id of each embedded file.
const (
	FrontmatterURL = "https://schemas.doc-dimensions.dev/" + Version + "/frontmatter.schema.json"
	StubsURL       = "https://schemas.doc-dimensions.dev/" + Version + "/stubs.schema.json"
)

//go:embed schemas/*.json
var files embed.FS

// Provider exposes the embedded schema documents.
type Provider struct{}

// FrontmatterSchema returns the frontmatter schema document.
func (Provider) FrontmatterSchema() []byte { return mustRead("schemas/frontmatter.schema.json") }

// StubsSchema returns the stubs schema document.
func (Provider) StubsSchema() []byte { return mustRead("schemas/stubs.schema.json") }

// Version returns the schema version.
func (Provider) Version() string { return Version }

func mustRead(name string) []byte {
	data, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("reading embedded schema %s: %v", name, err))
	}
	return data
}
