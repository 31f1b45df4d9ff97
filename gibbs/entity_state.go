package gibbs

import (
	"fmt"
	"slices"

	"github.com/archanas28/trungng-sub002/corpus"
)

// Switch records whether a token's topic was drawn from its document's
// mixture or from one of the document's entities.
type Switch uint8

const (
	FromDocument Switch = iota
	FromEntity
)

func (s Switch) String() string {
	if s == FromEntity {
		return "entity"
	}
	return "document"
}

// EntityState is the sufficient-statistics store of the entity-aware
// sampler. Word-topic counts are split by the path that produced them.
type EntityState struct {
	NumTopics   int
	VocabSize   int
	NumEntities int
	Docs        [][]int
	Entities    corpus.Associations

	Z  [][]int    // topic
	S  [][]Switch // document or entity path
	Ro [][]int    // owning entity id when S is FromEntity, -1 otherwise

	DocWordTopic    *Matrix // cwdt, V x T
	DocWordTopicSum []int   // cwdtsum, T
	EntWordTopic    *Matrix // cwet, V x T
	EntWordTopicSum []int   // cwetsum, T
	DocTopic        *Matrix // cdt, D x T
	DocSum          []int   // cdtsum, D
	EntTopic        *Matrix // cpt, H x T
	EntSum          []int   // cptsum, H

	entityTokens []int // total entity occurrences per document
}

// NewEntityState allocates an empty store. numEntities is the registry size.
func NewEntityState(docs [][]int, entities corpus.Associations, vocabSize, numEntities, numTopics int) *EntityState {
	s := &EntityState{
		NumTopics:       numTopics,
		VocabSize:       vocabSize,
		NumEntities:     numEntities,
		Docs:            docs,
		Entities:        entities,
		Z:               make([][]int, len(docs)),
		S:               make([][]Switch, len(docs)),
		Ro:              make([][]int, len(docs)),
		DocWordTopic:    NewMatrix(vocabSize, numTopics),
		DocWordTopicSum: make([]int, numTopics),
		EntWordTopic:    NewMatrix(vocabSize, numTopics),
		EntWordTopicSum: make([]int, numTopics),
		DocTopic:        NewMatrix(len(docs), numTopics),
		DocSum:          make([]int, len(docs)),
		EntTopic:        NewMatrix(numEntities, numTopics),
		EntSum:          make([]int, numEntities),
		entityTokens:    make([]int, len(docs)),
	}
	for m, words := range docs {
		s.Z[m] = make([]int, len(words))
		s.S[m] = make([]Switch, len(words))
		s.Ro[m] = make([]int, len(words))
		s.entityTokens[m] = entities.Tokens(m)
	}
	return s
}

// Init draws a uniform topic for every token and, in documents with
// entities, a uniform path and a uniform owning entity. Counts are then
// built in one pass. A document without entities consumes exactly the same
// random draws as the plain sampler's Init.
func (s *EntityState) Init(rng Rand) {
	for m, words := range s.Docs {
		ents := s.Entities.Of(m)
		for n := range words {
			s.Z[m][n] = rng.Intn(s.NumTopics)
			s.S[m][n] = FromDocument
			s.Ro[m][n] = -1
			if len(ents) > 0 && rng.Intn(2) == 1 {
				s.S[m][n] = FromEntity
				s.Ro[m][n] = ents[rng.Intn(len(ents))].ID
			}
		}
	}
	s.count()
}

func (s *EntityState) count() {
	for m, words := range s.Docs {
		for n, w := range words {
			s.incr(m, w, s.Z[m][n], s.S[m][n], s.Ro[m][n])
		}
	}
}

func (s *EntityState) incr(m, w, k int, sw Switch, h int) {
	if sw == FromEntity {
		s.EntWordTopic.Incr(w, k)
		s.EntWordTopicSum[k]++
		s.EntTopic.Incr(h, k)
		s.EntSum[h]++
		return
	}
	s.DocWordTopic.Incr(w, k)
	s.DocWordTopicSum[k]++
	s.DocTopic.Incr(m, k)
	s.DocSum[m]++
}

func (s *EntityState) decr(m, w, k int, sw Switch, h int) {
	if sw == FromEntity {
		s.EntWordTopic.Decr(w, k)
		s.EntWordTopicSum[k]--
		s.EntTopic.Decr(h, k)
		s.EntSum[h]--
		return
	}
	s.DocWordTopic.Decr(w, k)
	s.DocWordTopicSum[k]--
	s.DocTopic.Decr(m, k)
	s.DocSum[m]--
}

// Recount builds a fresh store from the current assignments.
func (s *EntityState) Recount() *EntityState {
	fresh := NewEntityState(s.Docs, s.Entities, s.VocabSize, s.NumEntities, s.NumTopics)
	for m := range s.Z {
		copy(fresh.Z[m], s.Z[m])
		copy(fresh.S[m], s.S[m])
		copy(fresh.Ro[m], s.Ro[m])
	}
	fresh.count()
	return fresh
}

// Verify checks the incrementally maintained counts against a recount and
// that tokens of entity-less documents stay on the document path.
func (s *EntityState) Verify() error {
	for m := range s.S {
		if len(s.Entities.Of(m)) > 0 {
			continue
		}
		for n, sw := range s.S[m] {
			if sw != FromDocument {
				return fmt.Errorf("document %d token %d has no entities but switch %s", m, n, sw)
			}
		}
	}
	fresh := s.Recount()
	switch {
	case !s.DocWordTopic.Equal(fresh.DocWordTopic) || !slices.Equal(s.DocWordTopicSum, fresh.DocWordTopicSum):
		return fmt.Errorf("document-path word counts drifted from assignments")
	case !s.EntWordTopic.Equal(fresh.EntWordTopic) || !slices.Equal(s.EntWordTopicSum, fresh.EntWordTopicSum):
		return fmt.Errorf("entity-path word counts drifted from assignments")
	case !s.DocTopic.Equal(fresh.DocTopic) || !slices.Equal(s.DocSum, fresh.DocSum):
		return fmt.Errorf("document-topic counts drifted from assignments")
	case !s.EntTopic.Equal(fresh.EntTopic) || !slices.Equal(s.EntSum, fresh.EntSum):
		return fmt.Errorf("entity-topic counts drifted from assignments")
	}
	return nil
}
