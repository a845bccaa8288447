// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"time"

	"github.com/katalvlaran/negkb/config"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Manifest records what a run produced and with which parameters.
type Manifest struct {
	RunID     string                `yaml:"run_id"`
	KB        string                `yaml:"kb"`
	Output    string                `yaml:"output"`
	Source    string                `yaml:"source"`
	MaxHops   int                   `yaml:"max_hops"`
	Hop       int                   `yaml:"hop"`
	Policy    string                `yaml:"policy"`
	Sampling  config.SamplingConfig `yaml:"sampling"`
	Constants int                   `yaml:"constants"`
	Positives int                   `yaml:"positives"`
	Negatives int                   `yaml:"negatives"`
	Relations []RelationSummary     `yaml:"relations"`
	StartedAt time.Time             `yaml:"started_at"`
	Elapsed   string                `yaml:"elapsed"`
	Footprint string                `yaml:"footprint"`
}

// RelationSummary counts the records of one relation.
type RelationSummary struct {
	Name      string `yaml:"name"`
	Arity     int    `yaml:"arity"`
	Positives int    `yaml:"positives"`
	Negatives int    `yaml:"negatives"`
}

// WriteManifest encodes m as YAML at path.
func WriteManifest(fsys afero.Fs, path string, m *Manifest) error {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("pipeline: manifest: %w", err)
	}
	if err = afero.WriteFile(fsys, path, raw, 0o644); err != nil {
		return fmt.Errorf("pipeline: manifest: %w", err)
	}

	return nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(fsys afero.Fs, path string) (*Manifest, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: manifest: %w", err)
	}
	var m Manifest
	if err = yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("pipeline: manifest %s: %w", path, err)
	}

	return &m, nil
}
