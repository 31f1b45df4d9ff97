package gibbs

import (
	"fmt"
	"math"
)

// LDASampler is the collapsed Gibbs sampler for LDA with a per-topic,
// per-word prior.
type LDASampler struct {
	State *State
	Prior *Prior
	Alpha float64

	rng Rand
	p   []float64
}

// NewLDASampler creates a sampler over an initialized store.
func NewLDASampler(st *State, pr *Prior, alpha float64, rng Rand) *LDASampler {
	return &LDASampler{
		State: st,
		Prior: pr,
		Alpha: alpha,
		rng:   rng,
		p:     make([]float64, st.NumTopics),
	}
}

// conditional fills s.p with the unnormalized full conditional of a token of
// word w in document m whose own assignment has already been removed.
func (s *LDASampler) conditional(m, w int) []float64 {
	st := s.State
	numTopics := st.NumTopics
	wt := st.WordTopic.Row(w)
	dt := st.DocTopic.Row(m)
	docNorm := float64(st.DocSum[m]) + float64(numTopics)*s.Alpha
	for k := range numTopics {
		wordPart := (float64(wt[k]) + s.Prior.Beta[k][w]) /
			(float64(st.TopicSum[k]) + s.Prior.SumBeta[k])
		docPart := (float64(dt[k]) + s.Alpha) / docNorm
		s.p[k] = wordPart * docPart
	}
	return s.p
}

// ResampleToken removes token n of document m from the counts, draws a new
// topic from its full conditional and inserts it back.
func (s *LDASampler) ResampleToken(m, n int) (int, error) {
	st := s.State
	w := st.Docs[m][n]
	st.decr(m, w, st.Z[m][n])

	k, err := SampleCategorical(s.conditional(m, w), s.rng)
	if err != nil {
		// Put the old assignment back so the store stays consistent.
		st.incr(m, w, st.Z[m][n])
		return 0, fmt.Errorf("document %d token %d: %w", m, n, err)
	}

	st.incr(m, w, k)
	st.Z[m][n] = k
	return k, nil
}

// Sweep resamples every token once, documents in order, positions in order.
func (s *LDASampler) Sweep() error {
	for m, words := range s.State.Docs {
		for n := range words {
			if _, err := s.ResampleToken(m, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// Verify checks the store against a recount of the assignments.
func (s *LDASampler) Verify() error {
	return s.State.Verify()
}

// LogLikelihood returns log p(w, z) under the current prior.
func (s *LDASampler) LogLikelihood() float64 {
	st := s.State
	return WordLogLikelihood(st, s.Prior) +
		docLogLikelihood(st.DocTopic, st.DocSum, st.NumTopics, s.Alpha)
}

// Collect adds the current point estimates to acc.
func (s *LDASampler) Collect(acc *Accumulator) {
	st := s.State
	acc.addTheta(acc.ThetaSum, st.DocTopic, st.DocSum, s.Alpha)
	for k := range st.NumTopics {
		row := acc.PhiSum[k]
		norm := float64(st.TopicSum[k]) + s.Prior.SumBeta[k]
		for i := range st.VocabSize {
			row[i] += (float64(st.WordTopic.Get(i, k)) + s.Prior.Beta[k][i]) / norm
		}
	}
	acc.Samples++
}

// WordLogLikelihood is the collapsed log p(w | z, beta):
//
//	sum_k [ lgamma(sumBeta_k) - lgamma(cwtsum_k + sumBeta_k) ]
//	  + sum_k sum_{i: cwt_ik > 0} [ lgamma(beta_ki + cwt_ik) - lgamma(beta_ki) ]
func WordLogLikelihood(st *State, pr *Prior) float64 {
	ll := 0.0
	for k := range st.NumTopics {
		ll += lgamma(pr.SumBeta[k]) - lgamma(float64(st.TopicSum[k])+pr.SumBeta[k])
	}
	for i := range st.VocabSize {
		row := st.WordTopic.Row(i)
		for k, c := range row {
			if c > 0 {
				b := pr.Beta[k][i]
				ll += lgamma(b+float64(c)) - lgamma(b)
			}
		}
	}
	return ll
}

func docLogLikelihood(dt *Matrix, docSum []int, numTopics int, alpha float64) float64 {
	tAlpha := float64(numTopics) * alpha
	lgAlpha := lgamma(alpha)
	ll := 0.0
	for m, n := range docSum {
		ll += lgamma(tAlpha) - lgamma(float64(n)+tAlpha)
		for _, c := range dt.Row(m) {
			if c > 0 {
				ll += lgamma(float64(c)+alpha) - lgAlpha
			}
		}
	}
	return ll
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
