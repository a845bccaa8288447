// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/negkb/negsample"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Default values, matching the reference run.
const (
	DefaultMaxHops    = 3
	DefaultHop        = 3
	DefaultPolicy     = negsample.PolicyFullRanking
	DefaultRounds     = 5
	DefaultTopK       = 5
	DefaultTopPercent = 50.0
	DefaultWorkers    = 1
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	ManifestFile      = "manifest.yaml"
)

// Config is a complete run configuration.
type Config struct {
	KB        KBConfig        `mapstructure:"kb" yaml:"kb"`
	Relevance RelevanceConfig `mapstructure:"relevance" yaml:"relevance"`
	Sampling  SamplingConfig  `mapstructure:"sampling" yaml:"sampling"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`

	// Workers bounds matrix, ranking and per-relation parallelism.
	Workers int `mapstructure:"workers" yaml:"workers" validate:"min=1"`
}

// KBConfig locates the positive KB directory.
type KBConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" validate:"required"`
}

// RelevanceConfig locates the relevance graph and selects the hop.
type RelevanceConfig struct {
	File    string `mapstructure:"file" yaml:"file"`
	MaxHops int    `mapstructure:"max_hops" yaml:"max_hops" validate:"min=0"`
	Hop     int    `mapstructure:"hop" yaml:"hop" validate:"min=0,ltefield=MaxHops"`
}

// SamplingConfig selects the policy and its parameters.
type SamplingConfig struct {
	Policy     string  `mapstructure:"policy" yaml:"policy" validate:"oneof=top-k top-percent full-ranking"`
	TopK       int     `mapstructure:"top_k" yaml:"top_k" validate:"min=0"`
	TopPercent float64 `mapstructure:"top_percent" yaml:"top_percent" validate:"min=0,max=100"`
	Rounds     int     `mapstructure:"rounds" yaml:"rounds" validate:"min=0"`

	// RankedLists, when set, names a ranked-list dump used instead of
	// propagating the relevance graph.
	RankedLists string `mapstructure:"ranked_lists" yaml:"ranked_lists,omitempty"`

	// Weights also writes a weight per negative.
	Weights bool `mapstructure:"weights" yaml:"weights"`
}

// OutputConfig places the negative KB. Name defaults to a name derived from
// the KB, hop and policy parameters.
type OutputConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir" validate:"required"`
	Name string `mapstructure:"name" yaml:"name,omitempty"`
}

// validate is a single instance of Validate, it caches struct info.
var validate = validator.New()

// Validate checks struct tags and the cross-field rules: a relevance source
// must be given and the policy parameters must be usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Relevance.File == "" && c.Sampling.RankedLists == "" {
		return fmt.Errorf("%w: relevance.file or sampling.ranked_lists is required", ErrInvalidConfig)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Policy builds the configured sampling policy.
func (c *Config) Policy() (negsample.Policy, error) {
	return negsample.NewPolicy(c.Sampling.Policy, negsample.Params{
		K:       c.Sampling.TopK,
		Percent: c.Sampling.TopPercent,
		Rounds:  c.Sampling.Rounds,
	})
}

// OutputName returns Output.Name, or the derived name for a KB called kbName:
//
//	top-k         <kb>_neg_con_rel_h<hop>k<k>
//	top-percent   <kb>_neg_con_rel_h<hop>p<percent>r<rounds>
//	full-ranking  <kb>_neg_con_rel_h<hop>r<rounds>
func (c *Config) OutputName(kbName string) string {
	if c.Output.Name != "" {
		return c.Output.Name
	}
	s := c.Sampling
	switch s.Policy {
	case negsample.PolicyTopK:
		return fmt.Sprintf("%s_neg_con_rel_h%dk%d", kbName, c.Relevance.Hop, s.TopK)
	case negsample.PolicyTopPercent:
		return fmt.Sprintf("%s_neg_con_rel_h%dp%sr%d", kbName, c.Relevance.Hop,
			strconv.FormatFloat(s.TopPercent, 'f', -1, 64), s.Rounds)
	default:
		return fmt.Sprintf("%s_neg_con_rel_h%dr%d", kbName, c.Relevance.Hop, s.Rounds)
	}
}

// RankListName returns the default ranked-list dump name for a KB:
// <kb>_rank_list_h<hop>.dat.
func (c *Config) RankListName(kbName string) string {
	return fmt.Sprintf("%s_rank_list_h%d.dat", kbName, c.Relevance.Hop)
}

// KBName is the base name of the positive KB directory.
func (c *Config) KBName() string {
	return filepath.Base(filepath.Clean(c.KB.Dir))
}
