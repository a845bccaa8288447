// SPDX-License-Identifier: MIT

// Command negkb generates negative knowledge bases from a positive KB and a
// relevance graph.
//
//	negkb run  --kb data/fb15k --relevance rel/fb15k.dat --policy top-k --top-k 5
//	negkb rank --kb data/fb15k --relevance rel/fb15k.dat --hop 2
//
// Every flag can also come from a YAML file (--config) or a NEGKB_* variable,
// e.g. NEGKB_SAMPLING_ROUNDS=10. Flags win over the environment, which wins
// over the file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/negkb/config"
	"github.com/katalvlaran/negkb/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:           "negkb",
		Short:         "Relevance-guided negative sampling for knowledge bases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configFile string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "negkb:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", config.DefaultLogFormat, "log format: console or json")
	pf.Int("workers", config.DefaultWorkers, "parallel workers for matrices, ranking and relations")

	rootCmd.AddCommand(runCmd, rankCmd)
	sourceFlags(runCmd.Flags())
	sourceFlags(rankCmd.Flags())

	f := runCmd.Flags()
	f.String("policy", config.DefaultPolicy, "sampling policy: top-k, top-percent, full-ranking")
	f.Int("top-k", config.DefaultTopK, "hard negatives per slot for top-k")
	f.Float64("top-percent", config.DefaultTopPercent, "eligible share of the ranking for top-percent")
	f.Int("rounds", config.DefaultRounds, "rounds for top-percent and full-ranking")
	f.String("ranked-lists", "", "ranked-list dump to sample from instead of propagating")
	f.Bool("weights", false, "also write one weight per negative")
	f.String("out", ".", "directory receiving the negative KB")
	f.String("name", "", "negative KB name (derived from the parameters when empty)")

	rankCmd.Flags().String("out", ".", "directory receiving the ranked-list dump")
	rankCmd.Flags().StringVarP(&rankPath, "file", "o", "", "dump path (default <out>/<kb>_rank_list_h<hop>.dat)")
}

// sourceFlags registers the positive KB and relevance flags shared by run
// and rank.
func sourceFlags(f *pflag.FlagSet) {
	f.String("kb", "", "positive KB directory")
	f.String("relevance", "", "relevance graph file")
	f.Int("max-hops", config.DefaultMaxHops, "highest hop to propagate")
	f.Int("hop", config.DefaultHop, "hop whose ranking drives sampling")
}

// setup loads the configuration for cmd and builds its logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.NewLoader(afero.NewOsFs()).
		WithFile(configFile).
		WithFlags(cmd.Flags()).
		WithEnvFiles(".env").
		Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.Log.Build()
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample a negative KB and write it with its manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		m, err := pipeline.New(cfg, afero.NewOsFs(), log).Run(cmd.Context())
		if err != nil {
			log.Error("run failed", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d negatives for %d positives (%s)\n",
			m.Output, m.Negatives, m.Positives, m.Elapsed)

		return nil
	},
}

var rankPath string

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Propagate relevance and dump the ranked lists of one hop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		path, err := pipeline.New(cfg, afero.NewOsFs(), log).RankOnly(cmd.Context(), rankPath)
		if err != nil {
			log.Error("rank failed", zap.Error(err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}
