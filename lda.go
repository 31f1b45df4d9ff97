// Package lda fits topic models to bag-of-words corpora by collapsed Gibbs
// sampling.
//
// Two variants are available: plain LDA whose topic-word prior can be
// re-estimated during the run with a word-graph smoothness penalty, and
// entity-aware LDA where every token is owned either by its document or by
// one of the document's named entities.
//
//	cfg, _ := lda.LoadTrainConfig("data")
//	res, _ := lda.Train(ctx, "data", cfg)
//	_, _ = res.Save("out", "corpus", 20, 5)
package lda

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
	"github.com/archanas28/trungng-sub002/internal/storage"
	"github.com/archanas28/trungng-sub002/prior"
	"github.com/archanas28/trungng-sub002/report"
)

// Variant names a sampler.
type Variant string

const (
	VariantLDA    Variant = "lda"
	VariantEntity Variant = "entity"
)

// TrainConfig holds configuration for training.
type TrainConfig struct {
	Sampler gibbs.Config
	Prior   prior.Config

	// Input files; relative names resolve against the data folder.
	CorpusFile   string
	VocabFile    string
	GraphFile    string
	EntitiesFile string
}

// DefaultTrainConfig returns the default training configuration.
func DefaultTrainConfig() TrainConfig {
	return fromStorage(storage.DefaultConfig())
}

// LoadTrainConfig reads config.json from dataDir on top of the defaults.
func LoadTrainConfig(dataDir string) (TrainConfig, error) {
	cfg, err := storage.NewStorage(dataDir).GetConfig()
	if err != nil {
		return TrainConfig{}, fmt.Errorf("lda: %w", err)
	}
	return fromStorage(*cfg), nil
}

func fromStorage(c storage.Config) TrainConfig {
	return TrainConfig{
		Sampler:      c.Sampler,
		Prior:        c.Prior,
		CorpusFile:   c.Files.Corpus,
		VocabFile:    c.Files.Vocab,
		GraphFile:    c.Files.Graph,
		EntitiesFile: c.Files.Entities,
	}
}

func (c TrainConfig) files() storage.Files {
	return storage.Files{
		Corpus:   c.CorpusFile,
		Vocab:    c.VocabFile,
		Graph:    c.GraphFile,
		Entities: c.EntitiesFile,
	}
}

// Validate reports the first invalid setting.
func (c TrainConfig) Validate() error {
	if err := c.Sampler.Validate(); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	if c.Sampler.OptimizationInterval > 0 {
		if err := c.Prior.Validate(); err != nil {
			return fmt.Errorf("prior: %w", err)
		}
	}
	if c.CorpusFile == "" {
		return fmt.Errorf("no corpus file configured")
	}
	return nil
}

// Result is a finished run.
type Result struct {
	RunID   string
	Variant Variant
	Seed    int64 // the seed actually used, also when the configured one was 0

	Model *gibbs.Model
	Trace *gibbs.Trace
	Prior *gibbs.Prior // final topic-word prior; nil for the entity variant

	Vocabulary *corpus.Vocabulary
	Registry   *corpus.Registry // nil for the plain variant
	Documents  int
	Tokens     int
}

// Save writes the report files of the run into dir, named after name. See
// report.Save for the file list.
func (r *Result) Save(dir, name string, topWords, topTopics int) ([]string, error) {
	_, numTopics := r.Model.Theta.Dims()
	entities := 0
	if r.Registry != nil {
		entities = r.Registry.Size()
	}
	out := report.Output{
		Model:      r.Model,
		Trace:      r.Trace,
		Vocabulary: r.Vocabulary,
		Registry:   r.Registry,
		TopWords:   topWords,
		TopTopics:  topTopics,
		Summary: report.Summary{
			RunID:         r.RunID,
			Variant:       string(r.Variant),
			Seed:          r.Seed,
			Documents:     r.Documents,
			Tokens:        r.Tokens,
			Vocabulary:    r.Vocabulary.Size(),
			Entities:      entities,
			Topics:        numTopics,
			Sweeps:        r.Trace.Sweeps,
			Samples:       r.Model.Samples,
			Optimizations: r.Trace.Optimizations,
			LogLikelihood: report.LastLogLikelihood(r.Trace),
		},
	}
	paths, err := report.Save(dir, name, out)
	if err != nil {
		return paths, fmt.Errorf("lda: %w", &gibbs.PhaseError{Phase: gibbs.PhaseReport, Err: err})
	}
	slog.Info("Report saved", "run", r.RunID, "dir", dir, "files", len(paths))
	return paths, nil
}

func newRunID() string {
	return uuid.New().String()
}
