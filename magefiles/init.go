//go:build mage

package main

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-dimensions/internal/config"
)

const configFile = "docdim.yaml"

// Init writes a starter docdim.yaml holding the default calculation
// settings. An existing file is left alone.
func Init() error {
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("%s already exists.\n", configFile)
		return nil
	}
	m, err := config.ToMap(config.Defaults())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(map[string]any{
		config.Section: m,
		"log":          map[string]string{"level": "warn", "format": "console"},
	})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", configFile, err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Printf("Wrote %s\n", configFile)
	return nil
}
