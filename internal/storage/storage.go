// Package storage reads the data folder of a sampling run: config.json and
// the corpus, vocabulary, word graph and entity files it names.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
	"github.com/archanas28/trungng-sub002/prior"
)

// Storage wraps the data folder of a run.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given data folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// Files names the input files. Relative names resolve against the folder.
type Files struct {
	Corpus   string `json:"corpus"`
	Vocab    string `json:"vocab"`
	Graph    string `json:"graph"`
	Entities string `json:"entities"`
}

// DefaultFiles returns the conventional file names.
func DefaultFiles() Files {
	return Files{
		Corpus:   "corpus.txt",
		Vocab:    "vocab.txt",
		Graph:    "graph.txt",
		Entities: "entities.txt",
	}
}

// Config is the structure of config.json.
type Config struct {
	Sampler gibbs.Config `json:"sampler"`
	Prior   prior.Config `json:"prior"`
	Files   Files        `json:"files"`
}

// DefaultConfig returns the configuration used when config.json is absent.
func DefaultConfig() Config {
	return Config{
		Sampler: gibbs.DefaultConfig(),
		Prior:   prior.DefaultConfig(),
		Files:   DefaultFiles(),
	}
}

// GetConfig reads config.json on top of the defaults. Keys missing from the
// file keep their default value; a missing file yields the defaults.
func (s *Storage) GetConfig() (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(filepath.Join(s.Folder, "config.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config.json: %w", err)
	}
	return &config, nil
}

// Path resolves a file name against the folder.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Folder, name)
}

func (s *Storage) exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Dataset is everything a run reads from the folder.
type Dataset struct {
	Corpus     *corpus.Corpus
	Vocabulary *corpus.Vocabulary
	Graph      *corpus.WordGraph   // nil when there is no graph file
	Registry   *corpus.Registry    // empty when there is no entities file
	Entities   corpus.Associations // nil when there is no entities file
}

// LoadOptions selects the optional inputs.
type LoadOptions struct {
	Graph    bool
	Entities bool
}

// Load reads the corpus and, when present, the vocabulary and the inputs
// selected by opts. Only the corpus is required.
func (s *Storage) Load(files Files, opts LoadOptions) (*Dataset, error) {
	ds := &Dataset{Registry: corpus.NewRegistry()}

	vocabSize := 0
	if s.exists(files.Vocab) {
		vocab, err := corpus.LoadVocabulary(s.Path(files.Vocab))
		if err != nil {
			return nil, fmt.Errorf("vocabulary: %w", err)
		}
		ds.Vocabulary = vocab
		vocabSize = vocab.Size()
	}

	c, err := corpus.Load(s.Path(files.Corpus), vocabSize)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	ds.Corpus = c
	if ds.Vocabulary == nil {
		ds.Vocabulary = corpus.NumberedVocabulary(c.VocabSize)
	}
	slog.Debug("Corpus loaded", "documents", c.NumDocs(), "tokens", c.NumTokens(), "vocabulary", c.VocabSize)

	if opts.Graph && s.exists(files.Graph) {
		g, err := corpus.LoadGraph(s.Path(files.Graph), c.VocabSize)
		if err != nil {
			return nil, fmt.Errorf("word graph: %w", err)
		}
		ds.Graph = g
		slog.Debug("Word graph loaded", "edges", g.NumEdges())
	}

	if opts.Entities && s.exists(files.Entities) {
		assoc, err := corpus.LoadEntities(s.Path(files.Entities), c.NumDocs(), ds.Registry)
		if err != nil {
			return nil, fmt.Errorf("entities: %w", err)
		}
		ds.Entities = assoc
		slog.Debug("Entities loaded", "entities", ds.Registry.Size())
	}
	return ds, nil
}
