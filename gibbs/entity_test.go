package gibbs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/archanas28/trungng-sub002/corpus"
)

func newEntitySampler(docs [][]int, ents corpus.Associations, vocabSize, numEntities, numTopics int, seed int64) *EntitySampler {
	rng := rand.New(rand.NewSource(seed))
	st := NewEntityState(docs, ents, vocabSize, numEntities, numTopics)
	st.Init(rng)
	return NewEntitySampler(st, 0.1, 0.1, 0.1, rng)
}

// smallEntities gives the first and last small document entities; the middle
// one has none.
var smallEntities = corpus.Associations{
	{{ID: 0, Count: 2}, {ID: 1, Count: 1}},
	nil,
	{{ID: 1, Count: 3}},
}

func TestEntityWithoutEntitiesReducesToLDA(t *testing.T) {
	const seed = 17
	plain := newLDA(smallDocs, 5, 3, 0.1, 0.1, seed)
	ent := newEntitySampler(smallDocs, nil, 5, 0, 3, seed)
	require.Equal(t, plain.State.Z, ent.State.Z)

	// Same weights for the first token of the last document.
	m, n := 2, 0
	w := smallDocs[m][n]
	plain.State.decr(m, w, plain.State.Z[m][n])
	ent.State.decr(m, w, ent.State.Z[m][n], FromDocument, -1)
	want := append([]float64(nil), plain.conditional(m, w)...)
	got := append([]float64(nil), ent.conditional(m, w)...)
	assert.Equal(t, want, got)
	plain.State.incr(m, w, plain.State.Z[m][n])
	ent.State.incr(m, w, ent.State.Z[m][n], FromDocument, -1)

	for range 10 {
		require.NoError(t, plain.Sweep())
		require.NoError(t, ent.Sweep())
		require.Equal(t, plain.State.Z, ent.State.Z)
	}
	for m := range ent.State.S {
		for _, sw := range ent.State.S[m] {
			assert.Equal(t, FromDocument, sw)
		}
	}
}

func TestEntitySweepKeepsInvariants(t *testing.T) {
	s := newEntitySampler(smallDocs, smallEntities, 5, 2, 2, 4)
	require.NoError(t, s.State.Verify())

	for range 15 {
		require.NoError(t, s.Sweep())
		require.NoError(t, s.Verify())

		st := s.State
		for m := range st.Docs {
			ids := make([]int, 0)
			for _, e := range st.Entities.Of(m) {
				ids = append(ids, e.ID)
			}
			for n, sw := range st.S[m] {
				if sw == FromEntity {
					assert.Contains(t, ids, st.Ro[m][n])
				} else {
					assert.Equal(t, -1, st.Ro[m][n])
				}
			}
		}

		// Every token sits on exactly one path.
		onPaths := 0
		for _, n := range st.DocSum {
			onPaths += n
		}
		for _, n := range st.EntSum {
			onPaths += n
		}
		assert.Equal(t, 11, onPaths)
		assert.Equal(t, 11, sum(st.DocWordTopicSum)+sum(st.EntWordTopicSum))
	}
}

func TestEntityResampleTokenAcrossRandomCorpora(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for trial := range 4 {
		docs := randomDocs(rng, 6, 10, 12)
		ents := make(corpus.Associations, len(docs))
		for m := range ents {
			for h := range 3 {
				if rng.Intn(2) == 0 {
					ents[m] = append(ents[m], corpus.EntityRef{ID: h, Count: 1 + rng.Intn(3)})
				}
			}
		}
		s := newEntitySampler(docs, ents, 10, 3, 3, int64(trial))
		for range 5 {
			for m, words := range docs {
				for n := range words {
					k, err := s.ResampleToken(m, n)
					require.NoError(t, err)
					require.Equal(t, k, s.State.Z[m][n])
				}
			}
			require.NoError(t, s.Verify())
		}
	}
}

func TestEntityCollectNormalizes(t *testing.T) {
	s := newEntitySampler(smallDocs, smallEntities, 5, 2, 2, 6)
	require.NoError(t, s.Sweep())

	acc := NewAccumulator(3, 2, 2, 5)
	s.Collect(acc)
	s.Collect(acc)
	model := acc.Finalize()
	require.Equal(t, 2, model.Samples)
	require.NotNil(t, model.EntityTheta)

	for _, m := range []*mat.Dense{model.Theta, model.Phi, model.EntityTheta} {
		rows, cols := m.Dims()
		for r := range rows {
			total := 0.0
			for c := range cols {
				total += m.At(r, c)
			}
			assert.InDelta(t, 1.0, total, 1e-12)
		}
	}
}

func TestSwitchString(t *testing.T) {
	assert.Equal(t, "document", FromDocument.String())
	assert.Equal(t, "entity", FromEntity.String())
}

func TestEntityStateVerifyDetectsStraySwitch(t *testing.T) {
	s := newEntitySampler(smallDocs, smallEntities, 5, 2, 2, 3)
	s.State.S[1][0] = FromEntity
	assert.Error(t, s.State.Verify())
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// handState builds a two-document store from fixed assignments. Document 0
// mentions entity 2 three times and entity 0 once.
func handState() *EntitySampler {
	docs := [][]int{{0, 1, 2, 0}, {1, 1}}
	ents := corpus.Associations{
		{{ID: 2, Count: 3}, {ID: 0, Count: 1}},
		{{ID: 1, Count: 1}},
	}
	st := NewEntityState(docs, ents, 3, 3, 2)
	st.Z = [][]int{{0, 1, 0, 1}, {0, 1}}
	st.S = [][]Switch{{FromDocument, FromEntity, FromEntity, FromDocument}, {FromEntity, FromDocument}}
	st.Ro = [][]int{{-1, 2, 0, -1}, {1, -1}}
	st.count()
	return NewEntitySampler(st, 0.1, 0.1, 0.1, nil)
}

func TestEntityConditionalMatchesFormula(t *testing.T) {
	s := handState()
	st := s.State
	require.NoError(t, st.Verify())
	st.decr(0, 0, 1, FromDocument, -1)

	// After removing the last token of document 0 (word 0, topic 1):
	//   cwdt[0] = [1 0], cwdtsum = [1 1], cdt[0] = [1 0], cdtsum[0] = 1
	//   cwet[0] = [0 0], cwetsum = [2 1]
	//   cpt[2] = [0 1], cpt[0] = [1 0], cptsum = 1 each, 4 entity mentions
	want := []float64{
		(1 + 0.1) / (1 + 0.3) * (1 + 0.1) / (1 + 0.2),
		(0 + 0.1) / (1 + 0.3) * (0 + 0.1) / (1 + 0.2),
		(0 + 0.1) / (2 + 0.3) * (0 + 0.1) / (1 + 0.2) / 4 * 3,
		(0 + 0.1) / (1 + 0.3) * (1 + 0.1) / (1 + 0.2) / 4 * 3,
		(0 + 0.1) / (2 + 0.3) * (1 + 0.1) / (1 + 0.2) / 4 * 1,
		(0 + 0.1) / (1 + 0.3) * (0 + 0.1) / (1 + 0.2) / 4 * 1,
	}
	got := s.conditional(0, 0)
	assert.InDeltaSlice(t, want, got, 1e-14)
}

func TestEntityResampleTokenDecodesCandidate(t *testing.T) {
	tests := []struct {
		candidate int
		topic     int
		sw        Switch
		entity    int
	}{
		{0, 0, FromDocument, -1},
		{1, 1, FromDocument, -1},
		{2, 0, FromEntity, 2},
		{3, 1, FromEntity, 2},
		{4, 0, FromEntity, 0},
		{5, 1, FromEntity, 0},
	}
	for _, tt := range tests {
		s := handState()
		st := s.State
		st.decr(0, 0, 1, FromDocument, -1)
		p := s.conditional(0, 0)
		mid := (floats.Sum(p[:tt.candidate]) + p[tt.candidate]/2) / floats.Sum(p)
		st.incr(0, 0, 1, FromDocument, -1)

		s.rng = &scriptedRand{floats: []float64{mid}}
		k, err := s.ResampleToken(0, 3)
		require.NoError(t, err)
		assert.Equal(t, tt.topic, k, "candidate %d", tt.candidate)
		assert.Equal(t, tt.topic, st.Z[0][3], "candidate %d", tt.candidate)
		assert.Equal(t, tt.sw, st.S[0][3], "candidate %d", tt.candidate)
		assert.Equal(t, tt.entity, st.Ro[0][3], "candidate %d", tt.candidate)
		assert.NoError(t, st.Verify(), "candidate %d", tt.candidate)
	}
}
