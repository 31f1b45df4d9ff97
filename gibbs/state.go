package gibbs

import (
	"fmt"
	"slices"
)

// State is the sufficient-statistics store of the plain LDA sampler. All
// counts are derived from Z; the row and column sums are kept up to date by
// every increment and decrement rather than recomputed.
type State struct {
	NumTopics int
	VocabSize int
	Docs      [][]int // borrowed token arrays, never modified

	Z [][]int // topic of token n in document m

	WordTopic *Matrix // cwt, V x T
	TopicSum  []int   // cwtsum, T
	DocTopic  *Matrix // cdt, D x T
	DocSum    []int   // cdtsum, D
}

// NewState allocates an empty store for docs. Z is sized but unassigned.
func NewState(docs [][]int, vocabSize, numTopics int) *State {
	s := &State{
		NumTopics: numTopics,
		VocabSize: vocabSize,
		Docs:      docs,
		Z:         make([][]int, len(docs)),
		WordTopic: NewMatrix(vocabSize, numTopics),
		TopicSum:  make([]int, numTopics),
		DocTopic:  NewMatrix(len(docs), numTopics),
		DocSum:    make([]int, len(docs)),
	}
	for m, words := range docs {
		s.Z[m] = make([]int, len(words))
	}
	return s
}

// Init draws a uniform topic for every token and builds the counts in one pass.
func (s *State) Init(rng Rand) {
	for m, words := range s.Docs {
		for n := range words {
			s.Z[m][n] = rng.Intn(s.NumTopics)
		}
	}
	s.count()
}

func (s *State) count() {
	for m, words := range s.Docs {
		for n, w := range words {
			s.incr(m, w, s.Z[m][n])
		}
	}
}

// incr adds token (doc m, word w) to topic k.
func (s *State) incr(m, w, k int) {
	s.WordTopic.Incr(w, k)
	s.TopicSum[k]++
	s.DocTopic.Incr(m, k)
	s.DocSum[m]++
}

// decr removes token (doc m, word w) from topic k.
func (s *State) decr(m, w, k int) {
	s.WordTopic.Decr(w, k)
	s.TopicSum[k]--
	s.DocTopic.Decr(m, k)
	s.DocSum[m]--
}

// Recount builds a fresh store from the current assignments.
func (s *State) Recount() *State {
	fresh := NewState(s.Docs, s.VocabSize, s.NumTopics)
	for m := range s.Z {
		copy(fresh.Z[m], s.Z[m])
	}
	fresh.count()
	return fresh
}

// Verify checks the incrementally maintained counts against a recount.
func (s *State) Verify() error {
	fresh := s.Recount()
	switch {
	case !s.WordTopic.Equal(fresh.WordTopic):
		return fmt.Errorf("word-topic counts drifted from assignments")
	case !slices.Equal(s.TopicSum, fresh.TopicSum):
		return fmt.Errorf("topic sums drifted from assignments")
	case !s.DocTopic.Equal(fresh.DocTopic):
		return fmt.Errorf("document-topic counts drifted from assignments")
	case !slices.Equal(s.DocSum, fresh.DocSum):
		return fmt.Errorf("document sums drifted from assignments")
	}
	return nil
}

// Prior is the topic-word Dirichlet prior used by the plain sampler.
// Beta[k][i] is the pseudo-count of word i in topic k and SumBeta[k] its row sum.
type Prior struct {
	Beta    [][]float64
	SumBeta []float64
}

// NewSymmetricPrior returns a prior with every entry equal to beta.
func NewSymmetricPrior(numTopics, vocabSize int, beta float64) *Prior {
	p := &Prior{
		Beta:    make([][]float64, numTopics),
		SumBeta: make([]float64, numTopics),
	}
	for k := range numTopics {
		row := make([]float64, vocabSize)
		for i := range row {
			row[i] = beta
		}
		p.Beta[k] = row
		p.SumBeta[k] = float64(vocabSize) * beta
	}
	return p
}

// Resum recomputes SumBeta from Beta.
func (p *Prior) Resum() {
	for k, row := range p.Beta {
		sum := 0.0
		for _, b := range row {
			sum += b
		}
		p.SumBeta[k] = sum
	}
}
