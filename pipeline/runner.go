// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/katalvlaran/negkb/config"
	"github.com/katalvlaran/negkb/kb"
	"github.com/katalvlaran/negkb/negsample"
	"github.com/katalvlaran/negkb/relevance"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Ranking sources recorded in the manifest.
const (
	SourcePropagated = "propagated"
	SourceRankedList = "ranked-lists"
)

// Runner executes runs for one validated configuration.
type Runner struct {
	cfg   *config.Config
	fs    afero.Fs
	log   *zap.Logger
	store *kb.Store
}

// New returns a Runner reading and writing through fsys. A nil log discards
// everything.
func New(cfg *config.Config, fsys afero.Fs, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		cfg:   cfg,
		fs:    fsys,
		log:   log,
		store: kb.NewStore(fsys, kb.WithLogger(log)),
	}
}

// Run performs a full sampling run and returns its manifest, which is also
// written as manifest.yaml inside the negative KB directory. Any error is
// fatal for the run; nothing is retried.
func (r *Runner) Run(ctx context.Context) (*Manifest, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := r.log.With(zap.String("run_id", runID))

	pos, err := r.store.LoadPositive(r.cfg.KB.Dir)
	if err != nil {
		return nil, err
	}
	rk, source, err := r.ranking(ctx, log)
	if err != nil {
		return nil, err
	}

	policy, err := r.cfg.Policy()
	if err != nil {
		return nil, err
	}
	sampler, err := negsample.NewSampler(policy, rk,
		negsample.WithWorkers(r.cfg.Workers),
		negsample.WithLogger(log))
	if err != nil {
		return nil, err
	}
	sets, err := sampler.Run(ctx, pos.Relations)
	if err != nil {
		return nil, err
	}

	nkb := r.negativeKB(pos, sets, rk.Universe())
	if err = r.store.DumpNegative(r.cfg.Output.Dir, nkb); err != nil {
		return nil, err
	}

	m := &Manifest{
		RunID:     runID,
		KB:        pos.Name,
		Output:    nkb.Name,
		Source:    source,
		MaxHops:   r.cfg.Relevance.MaxHops,
		Hop:       r.cfg.Relevance.Hop,
		Policy:    policy.Name(),
		Sampling:  r.cfg.Sampling,
		Constants: rk.Universe(),
		Positives: pos.TotalRecords(),
		Negatives: nkb.TotalRecords(),
		StartedAt: start.UTC(),
		Elapsed:   time.Since(start).String(),
		Footprint: humanize.Bytes(r.footprint(rk.Universe(), source)),
	}
	for i, rel := range pos.Relations {
		m.Relations = append(m.Relations, RelationSummary{
			Name:      rel.Name(),
			Arity:     rel.Arity(),
			Positives: rel.Len(),
			Negatives: sets[i].Len(),
		})
	}
	manifestPath := filepath.Join(r.cfg.Output.Dir, nkb.Name, config.ManifestFile)
	if err = WriteManifest(r.fs, manifestPath, m); err != nil {
		return nil, err
	}

	log.Info("run finished",
		zap.String("kb", pos.Name),
		zap.String("output", nkb.Name),
		zap.String("policy", policy.Name()),
		zap.Int("records", m.Positives),
		zap.Int("negatives", m.Negatives),
		zap.Duration("elapsed", time.Since(start)))

	return m, nil
}

// RankOnly writes the ranked lists of the configured hop to out, or to
// <output.dir>/<kb>_rank_list_h<hop>.dat when out is empty, and returns the
// path written.
func (r *Runner) RankOnly(ctx context.Context, out string) (string, error) {
	rk, _, err := r.ranking(ctx, r.log)
	if err != nil {
		return "", err
	}
	if out == "" {
		out = filepath.Join(r.cfg.Output.Dir, r.cfg.RankListName(r.cfg.KBName()))
	}
	if err = r.fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("pipeline: %w", err)
	}
	if err = relevance.DumpRankedLists(r.fs, out, rk); err != nil {
		return "", err
	}
	r.log.Info("ranked lists written",
		zap.String("path", out),
		zap.Int("hop", r.cfg.Relevance.Hop),
		zap.Int("constants", rk.Universe()))

	return out, nil
}

// ranking loads the configured ranked-list dump, or propagates the
// relevance graph and ranks the configured hop.
func (r *Runner) ranking(ctx context.Context, log *zap.Logger) (*relevance.Ranking, string, error) {
	if path := r.cfg.Sampling.RankedLists; path != "" {
		rk, err := relevance.LoadRankedLists(r.fs, path)
		if err != nil {
			return nil, "", err
		}
		log.Info("ranked lists loaded", zap.String("path", path), zap.Int("constants", rk.Universe()))
		return rk, SourceRankedList, nil
	}

	g, err := relevance.LoadGraph(r.fs, r.cfg.Relevance.File)
	if err != nil {
		return nil, "", err
	}
	opts := []relevance.Option{
		relevance.WithContext(ctx),
		relevance.WithLogger(log),
		relevance.WithWorkers(r.cfg.Workers),
	}
	p, err := relevance.Propagate(g, r.cfg.Relevance.MaxHops, opts...)
	if err != nil {
		return nil, "", err
	}
	rk, err := p.Rank(r.cfg.Relevance.Hop, opts...)
	if err != nil {
		return nil, "", err
	}

	return rk, SourcePropagated, nil
}

// negativeKB names the output and attaches weights when configured.
func (r *Runner) negativeKB(pos *kb.KB, sets []*negsample.RecordSet, universe int) *kb.NegativeKB {
	nkb := &kb.NegativeKB{
		Name:      r.cfg.OutputName(pos.Name),
		Relations: make([]kb.NegativeRelation, len(pos.Relations)),
	}
	for i, rel := range pos.Relations {
		nr := kb.NegativeRelation{
			Name:    rel.Name(),
			Arity:   rel.Arity(),
			Records: sets[i].Records(),
		}
		if r.cfg.Sampling.Weights {
			nr.Weights = negsample.Weights(rel, nr.Records, universe)
		}
		nkb.Relations[i] = nr
	}

	return nkb
}

// footprint estimates the bytes held by the ranking source.
func (r *Runner) footprint(universe int, source string) uint64 {
	ranked := 2 * uint64(universe) * uint64(universe) * kb.IntSize
	if source == SourceRankedList {
		return ranked
	}

	return relevance.Footprint(universe, r.cfg.Relevance.MaxHops) + ranked
}
