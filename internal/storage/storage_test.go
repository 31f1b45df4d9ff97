package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/archanas28/trungng-sub002/corpus"
)

func writeFolder(t *testing.T, files map[string]string) *Storage {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return NewStorage(dir)
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name       string
		config     string
		wantTopics int
		wantBurnIn int
		wantCorpus string
		wantErr    bool
	}{
		{"missing file", "", 20, 500, "corpus.txt", false},
		{"partial override", `{"sampler": {"num_topics": 7}}`, 7, 500, "corpus.txt", false},
		{"files override", `{"files": {"corpus": "docs.bow"}, "sampler": {"burn_in": 3}}`, 20, 3, "docs.bow", false},
		{"bad json", `{"sampler": `, 0, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.config != "" {
				files["config.json"] = tt.config
			}
			s := writeFolder(t, files)
			cfg, err := s.GetConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Sampler.NumTopics != tt.wantTopics {
				t.Errorf("NumTopics = %d, want %d", cfg.Sampler.NumTopics, tt.wantTopics)
			}
			if cfg.Sampler.BurnIn != tt.wantBurnIn {
				t.Errorf("BurnIn = %d, want %d", cfg.Sampler.BurnIn, tt.wantBurnIn)
			}
			if cfg.Files.Corpus != tt.wantCorpus {
				t.Errorf("Files.Corpus = %q, want %q", cfg.Files.Corpus, tt.wantCorpus)
			}
			if cfg.Files.Vocab != "vocab.txt" {
				t.Errorf("Files.Vocab = %q, want default", cfg.Files.Vocab)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	s := writeFolder(t, map[string]string{
		"corpus.txt":   "2 3 0:2 1:1\n# comment\n1 2 2:2\n",
		"vocab.txt":    "apple\nbanana\ncherry\n",
		"graph.txt":    "0 1\n1 0 2\n",
		"entities.txt": "Acme:2\n\n",
	})

	tests := []struct {
		name         string
		opts         LoadOptions
		wantEdges    int
		wantEntities int
	}{
		{"corpus only", LoadOptions{}, -1, 0},
		{"with graph", LoadOptions{Graph: true}, 2, 0},
		{"with entities", LoadOptions{Entities: true}, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := s.Load(DefaultFiles(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got := ds.Corpus.NumDocs(); got != 2 {
				t.Errorf("NumDocs = %d, want 2", got)
			}
			if got := ds.Corpus.NumTokens(); got != 5 {
				t.Errorf("NumTokens = %d, want 5", got)
			}
			if got := ds.Vocabulary.String(2); got != "cherry" {
				t.Errorf("word 2 = %q, want cherry", got)
			}
			edges := -1
			if ds.Graph != nil {
				edges = ds.Graph.NumEdges()
			}
			if edges != tt.wantEdges {
				t.Errorf("edges = %d, want %d", edges, tt.wantEdges)
			}
			if got := ds.Registry.Size(); got != tt.wantEntities {
				t.Errorf("entities = %d, want %d", got, tt.wantEntities)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		malformed bool
	}{
		{"missing corpus", map[string]string{}, false},
		{"word outside vocabulary", map[string]string{"corpus.txt": "1 1 5:1\n", "vocab.txt": "a\nb\n"}, true},
		{"bad graph id", map[string]string{"corpus.txt": "1 1 0:1\n", "graph.txt": "0 9\n"}, true},
		{"too many entity lines", map[string]string{"corpus.txt": "1 1 0:1\n", "entities.txt": "a:1\nb:1\n"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := writeFolder(t, tt.files)
			_, err := s.Load(DefaultFiles(), LoadOptions{Graph: true, Entities: true})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, corpus.ErrMalformed); got != tt.malformed {
				t.Errorf("errors.Is(err, ErrMalformed) = %v, want %v (%v)", got, tt.malformed, err)
			}
		})
	}
}

func TestPath(t *testing.T) {
	s := NewStorage("/data")
	if got := s.Path("corpus.txt"); got != filepath.Join("/data", "corpus.txt") {
		t.Errorf("Path(relative) = %q", got)
	}
	if got := s.Path("/abs/corpus.txt"); got != "/abs/corpus.txt" {
		t.Errorf("Path(absolute) = %q", got)
	}
}
