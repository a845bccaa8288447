// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/negkb/config"
	"github.com/katalvlaran/negkb/negsample"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/negkb.yaml", "kb:\n  dir: pos/Cs\nrelevance:\n  file: rel/Cs.dat\n")

	cfg, err := config.NewLoader(fsys).WithFile("/negkb.yaml").Load()
	require.NoError(t, err)
	require.Equal(t, "pos/Cs", cfg.KB.Dir)
	require.Equal(t, config.DefaultMaxHops, cfg.Relevance.MaxHops)
	require.Equal(t, config.DefaultHop, cfg.Relevance.Hop)
	require.Equal(t, negsample.PolicyFullRanking, cfg.Sampling.Policy)
	require.Equal(t, config.DefaultRounds, cfg.Sampling.Rounds)
	require.Equal(t, config.DefaultTopK, cfg.Sampling.TopK)
	require.Equal(t, config.DefaultTopPercent, cfg.Sampling.TopPercent)
	require.Equal(t, ".", cfg.Output.Dir)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, "Cs", cfg.KBName())
	require.Equal(t, "Cs_neg_con_rel_h3r5", cfg.OutputName(cfg.KBName()))

	pol, err := cfg.Policy()
	require.NoError(t, err)
	require.Equal(t, negsample.FullRanking{Rounds: 5}, pol)
}

func TestLoad_Precedence(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/negkb.yaml", `
kb:
  dir: pos/Fm
relevance:
  file: rel/Fm.dat
  hop: 1
sampling:
  policy: top-percent
  top_percent: 30
  rounds: 2
`)
	t.Setenv("NEGKB_SAMPLING_ROUNDS", "4")
	t.Setenv("NEGKB_RELEVANCE_HOP", "2")

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.Int("hop", 0, "")
	flags.String("out", "", "")
	require.NoError(t, flags.Parse([]string{"--hop=3", "--out=/tmp/neg"}))

	cfg, err := config.NewLoader(fsys).WithFile("/negkb.yaml").WithFlags(flags).Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Relevance.Hop)       // flag beats env
	require.Equal(t, 4, cfg.Sampling.Rounds)     // env beats file
	require.Equal(t, 30.0, cfg.Sampling.TopPercent)
	require.Equal(t, "/tmp/neg", cfg.Output.Dir)
	require.Equal(t, "Fm_neg_con_rel_h3p30r4", cfg.OutputName("Fm"))
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NEGKB_KB_DIR=pos/UMLS\nNEGKB_RELEVANCE_FILE=rel.dat\n"), 0o644))
	for _, key := range []string{"NEGKB_KB_DIR", "NEGKB_RELEVANCE_FILE"} {
		t.Setenv(key, "") // restored after the test
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.NewLoader(afero.NewMemMapFs()).
		WithEnvFiles(filepath.Join(dir, "missing.env"), envPath).
		Load()
	require.NoError(t, err)
	require.Equal(t, "pos/UMLS", cfg.KB.Dir)
	require.Equal(t, "rel.dat", cfg.Relevance.File)
}

func TestLoad_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := config.NewLoader(fsys).WithFile("/absent.yaml").Load()
	require.Error(t, err)

	writeFile(t, fsys, "/bad.yaml", "kb: [unclosed\n")
	_, err = config.NewLoader(fsys).WithFile("/bad.yaml").Load()
	require.Error(t, err)

	writeFile(t, fsys, "/nokb.yaml", "relevance:\n  file: rel.dat\n")
	_, err = config.NewLoader(fsys).WithFile("/nokb.yaml").Load()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidate_Failures(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			KB:        config.KBConfig{Dir: "kb"},
			Relevance: config.RelevanceConfig{File: "rel.dat", MaxHops: 3, Hop: 3},
			Sampling:  config.SamplingConfig{Policy: negsample.PolicyFullRanking, Rounds: 5, TopK: 5, TopPercent: 50},
			Output:    config.OutputConfig{Dir: "out"},
			Log:       config.LogConfig{Level: "info", Format: "json"},
			Workers:   1,
		}
	}
	ok := base()
	require.NoError(t, ok.Validate())

	cases := map[string]func(c *config.Config){
		"hop above max":      func(c *config.Config) { c.Relevance.Hop = 4 },
		"negative max hops":  func(c *config.Config) { c.Relevance.MaxHops = -1; c.Relevance.Hop = -1 },
		"unknown policy":     func(c *config.Config) { c.Sampling.Policy = "uniform" },
		"zero rounds":        func(c *config.Config) { c.Sampling.Rounds = 0 },
		"top-k without k":    func(c *config.Config) { c.Sampling.Policy = negsample.PolicyTopK; c.Sampling.TopK = 0 },
		"percent above 100":  func(c *config.Config) { c.Sampling.TopPercent = 120 },
		"no relevance input": func(c *config.Config) { c.Relevance.File = "" },
		"no kb":              func(c *config.Config) { c.KB.Dir = "" },
		"no output":          func(c *config.Config) { c.Output.Dir = "" },
		"bad log level":      func(c *config.Config) { c.Log.Level = "trace" },
		"zero workers":       func(c *config.Config) { c.Workers = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}

	ranked := base()
	ranked.Relevance.File = ""
	ranked.Sampling.RankedLists = "Cs_rank_list_h3.dat"
	require.NoError(t, ranked.Validate())
}

func TestOutputName(t *testing.T) {
	c := config.Config{
		Relevance: config.RelevanceConfig{Hop: 2},
		Sampling:  config.SamplingConfig{Policy: negsample.PolicyTopK, TopK: 3, TopPercent: 12.5, Rounds: 1},
	}
	require.Equal(t, "Cs_neg_con_rel_h2k3", c.OutputName("Cs"))

	c.Sampling.Policy = negsample.PolicyTopPercent
	require.Equal(t, "Cs_neg_con_rel_h2p12.5r1", c.OutputName("Cs"))

	c.Output.Name = "custom"
	require.Equal(t, "custom", c.OutputName("Cs"))
	require.Equal(t, "Cs_rank_list_h2.dat", c.RankListName("Cs"))
}

func TestLogConfig_Build(t *testing.T) {
	log, err := config.LogConfig{Level: "debug", Format: "json"}.Build()
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = config.LogConfig{Level: "loud", Format: "json"}.Build()
	require.Error(t, err)
	_, err = config.LogConfig{Level: "info", Format: "xml"}.Build()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
