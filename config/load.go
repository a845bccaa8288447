// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. NEGKB_RELEVANCE_HOP.
const EnvPrefix = "NEGKB"

// FlagKeys maps configuration keys to the command-line flags bound to them.
var FlagKeys = map[string]string{
	"kb.dir":                "kb",
	"relevance.file":        "relevance",
	"relevance.max_hops":    "max-hops",
	"relevance.hop":         "hop",
	"sampling.policy":       "policy",
	"sampling.top_k":        "top-k",
	"sampling.top_percent":  "top-percent",
	"sampling.rounds":       "rounds",
	"sampling.ranked_lists": "ranked-lists",
	"sampling.weights":      "weights",
	"output.dir":            "out",
	"output.name":           "name",
	"log.level":             "log-level",
	"log.format":            "log-format",
	"workers":               "workers",
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("kb.dir", "")
	v.SetDefault("relevance.file", "")
	v.SetDefault("relevance.max_hops", DefaultMaxHops)
	v.SetDefault("relevance.hop", DefaultHop)
	v.SetDefault("sampling.policy", DefaultPolicy)
	v.SetDefault("sampling.top_k", DefaultTopK)
	v.SetDefault("sampling.top_percent", DefaultTopPercent)
	v.SetDefault("sampling.rounds", DefaultRounds)
	v.SetDefault("sampling.ranked_lists", "")
	v.SetDefault("sampling.weights", false)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.name", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("workers", DefaultWorkers)
}

// Loader assembles a Config from defaults, a file, the environment and flags.
type Loader struct {
	fs       afero.Fs
	file     string
	flags    *pflag.FlagSet
	envFiles []string
}

// NewLoader reads configuration files from fsys.
func NewLoader(fsys afero.Fs) *Loader {
	return &Loader{fs: fsys}
}

// WithFile sets the YAML configuration file. An empty path means none.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithFlags binds the flags named in FlagKeys that exist in flags.
func (l *Loader) WithFlags(flags *pflag.FlagSet) *Loader {
	l.flags = flags
	return l
}

// WithEnvFiles loads the given dotenv files into the process environment
// before reading NEGKB_* variables. Missing files are skipped.
func (l *Loader) WithEnvFiles(paths ...string) *Loader {
	l.envFiles = append(l.envFiles, paths...)
	return l
}

// Load resolves and validates the configuration.
//
// Errors:
//   - ErrInvalidConfig for validation failures.
//   - viper errors for unreadable or unparsable files.
func (l *Loader) Load() (*Config, error) {
	for _, path := range l.envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetFs(l.fs)
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", l.file, err)
		}
	}
	if l.flags != nil {
		for key, name := range FlagKeys {
			if f := l.flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
