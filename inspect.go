package lda

import (
	"fmt"

	"github.com/archanas28/trungng-sub002/gibbs"
	"github.com/archanas28/trungng-sub002/internal/storage"
)

// DataInfo describes the inputs found in a data folder.
type DataInfo struct {
	Documents      int
	EmptyDocuments int
	Tokens         int
	Vocabulary     int
	GraphEdges     int // -1 when there is no graph file
	Entities       int
	EntityTokens   int
	EntityDocs     int // documents with at least one entity
}

// Inspect loads every input of dataDir without sampling and reports its
// size. It fails exactly where a training run would fail to load.
func Inspect(dataDir string, cfg TrainConfig) (*DataInfo, error) {
	ds, err := storage.NewStorage(dataDir).Load(cfg.files(), storage.LoadOptions{Graph: true, Entities: true})
	if err != nil {
		return nil, fmt.Errorf("lda: %w", &gibbs.PhaseError{Phase: gibbs.PhaseLoad, Err: err})
	}

	info := &DataInfo{
		Documents:  ds.Corpus.NumDocs(),
		Tokens:     ds.Corpus.NumTokens(),
		Vocabulary: ds.Corpus.VocabSize,
		GraphEdges: -1,
		Entities:   ds.Registry.Size(),
	}
	for _, d := range ds.Corpus.Docs {
		if d.Len() == 0 {
			info.EmptyDocuments++
		}
	}
	if ds.Graph != nil {
		info.GraphEdges = ds.Graph.NumEdges()
	}
	for m := range ds.Entities {
		if n := ds.Entities.Tokens(m); n > 0 {
			info.EntityTokens += n
			info.EntityDocs++
		}
	}
	return info, nil
}
