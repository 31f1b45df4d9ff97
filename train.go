package lda

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/archanas28/trungng-sub002/gibbs"
	"github.com/archanas28/trungng-sub002/internal/storage"
	"github.com/archanas28/trungng-sub002/prior"
)

// Train fits plain LDA to the corpus in dataDir. When the sampler's
// OptimizationInterval is positive the topic-word prior starts at 1 and is
// re-estimated during the run, smoothed over the word graph if one is
// present; otherwise the flat Sampler.Beta prior is used throughout.
func Train(ctx context.Context, dataDir string, cfg TrainConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("lda: %w", err)
	}
	optimize := cfg.Sampler.OptimizationInterval > 0
	ds, err := load(dataDir, cfg, storage.LoadOptions{Graph: optimize})
	if err != nil {
		return nil, err
	}

	sc := cfg.Sampler
	rng, seed := gibbs.NewRand(sc.Seed)
	res := newResult(VariantLDA, seed, ds)
	log := slog.Default().With("run", res.RunID)
	log.Info("Training LDA",
		"documents", res.Documents,
		"tokens", res.Tokens,
		"vocabulary", ds.Corpus.VocabSize,
		"topics", sc.NumTopics,
		"seed", seed,
		"optimize_prior", optimize)

	numTopics, vocabSize := sc.NumTopics, ds.Corpus.VocabSize
	st := gibbs.NewState(ds.Corpus.Words(), vocabSize, numTopics)
	st.Init(rng)

	runner := &gibbs.Runner{Config: sc, Logger: log}
	var pr *gibbs.Prior
	if optimize {
		opt, err := prior.NewOptimizer(ds.Graph, numTopics, vocabSize, cfg.Prior)
		if err != nil {
			return nil, fmt.Errorf("lda: %w", err)
		}
		pr = opt.InitialPrior()
		runner.Optimize = func(int) error {
			_, err := opt.Optimize(st, pr)
			return err
		}
	} else {
		pr = gibbs.NewSymmetricPrior(numTopics, vocabSize, sc.Beta)
	}

	sampler := gibbs.NewLDASampler(st, pr, sc.Alpha, rng)
	acc := gibbs.NewAccumulator(len(st.Docs), 0, numTopics, vocabSize)
	trace, err := runner.Run(ctx, sampler, acc)
	if err != nil {
		return nil, fmt.Errorf("lda: %w", err)
	}

	res.Model = acc.Finalize()
	res.Trace = trace
	res.Prior = pr
	log.Info("Training complete", "sweeps", trace.Sweeps, "samples", res.Model.Samples)
	return res, nil
}

// TrainEntity fits entity-aware LDA to the corpus and entity file in
// dataDir. Documents without entities are sampled exactly like plain LDA
// with the flat Sampler.Beta prior. The prior is never re-estimated.
func TrainEntity(ctx context.Context, dataDir string, cfg TrainConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("lda: %w", err)
	}
	ds, err := load(dataDir, cfg, storage.LoadOptions{Entities: true})
	if err != nil {
		return nil, err
	}

	sc := cfg.Sampler
	sc.OptimizationInterval = 0
	rng, seed := gibbs.NewRand(sc.Seed)
	res := newResult(VariantEntity, seed, ds)
	res.Registry = ds.Registry
	numEntities := ds.Registry.Size()
	log := slog.Default().With("run", res.RunID)
	log.Info("Training entity LDA",
		"documents", res.Documents,
		"tokens", res.Tokens,
		"vocabulary", ds.Corpus.VocabSize,
		"entities", numEntities,
		"topics", sc.NumTopics,
		"seed", seed)
	if numEntities == 0 {
		log.Warn("No entities found, sampling reduces to plain LDA")
	}

	numTopics, vocabSize := sc.NumTopics, ds.Corpus.VocabSize
	st := gibbs.NewEntityState(ds.Corpus.Words(), ds.Entities, vocabSize, numEntities, numTopics)
	st.Init(rng)

	sampler := gibbs.NewEntitySampler(st, sc.Alpha, sc.Beta, sc.Gamma, rng)
	acc := gibbs.NewAccumulator(len(st.Docs), numEntities, numTopics, vocabSize)
	runner := &gibbs.Runner{Config: sc, Logger: log}
	trace, err := runner.Run(ctx, sampler, acc)
	if err != nil {
		return nil, fmt.Errorf("lda: %w", err)
	}

	res.Model = acc.Finalize()
	res.Trace = trace
	log.Info("Training complete", "sweeps", trace.Sweeps, "samples", res.Model.Samples)
	return res, nil
}

func load(dataDir string, cfg TrainConfig, opts storage.LoadOptions) (*storage.Dataset, error) {
	ds, err := storage.NewStorage(dataDir).Load(cfg.files(), opts)
	if err == nil && ds.Corpus.NumTokens() == 0 {
		err = fmt.Errorf("no tokens in %s", dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("lda: %w", &gibbs.PhaseError{Phase: gibbs.PhaseLoad, Err: err})
	}
	return ds, nil
}

func newResult(v Variant, seed int64, ds *storage.Dataset) *Result {
	return &Result{
		RunID:      newRunID(),
		Variant:    v,
		Seed:       seed,
		Vocabulary: ds.Vocabulary,
		Documents:  ds.Corpus.NumDocs(),
		Tokens:     ds.Corpus.NumTokens(),
	}
}
