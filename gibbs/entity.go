package gibbs

import "fmt"

// EntitySampler is the collapsed Gibbs sampler for entity-aware LDA. Each
// token jointly resamples its topic, its path and, on the entity path, the
// document entity that owns the draw.
type EntitySampler struct {
	State *EntityState
	Alpha float64
	Beta  float64
	Gamma float64

	rng Rand
	p   []float64
}

// NewEntitySampler creates a sampler over an initialized store.
func NewEntitySampler(st *EntityState, alpha, beta, gamma float64, rng Rand) *EntitySampler {
	return &EntitySampler{
		State: st,
		Alpha: alpha,
		Beta:  beta,
		Gamma: gamma,
		rng:   rng,
	}
}

// conditional returns the weights of all candidates for a token of word w in
// document m. Candidate k < T is (topic k, document path); candidate
// T*(j+1)+k is (topic k, entity j of the document).
func (s *EntitySampler) conditional(m, w int) []float64 {
	st := s.State
	numTopics := st.NumTopics
	ents := st.Entities.Of(m)

	size := numTopics * (1 + len(ents))
	if cap(s.p) < size {
		s.p = make([]float64, size)
	}
	p := s.p[:size]

	vBeta := float64(st.VocabSize) * s.Beta
	tAlpha := float64(numTopics) * s.Alpha
	tGamma := float64(numTopics) * s.Gamma

	dwt := st.DocWordTopic.Row(w)
	dt := st.DocTopic.Row(m)
	docNorm := float64(st.DocSum[m]) + tAlpha
	for k := range numTopics {
		wordPart := (float64(dwt[k]) + s.Beta) / (float64(st.DocWordTopicSum[k]) + vBeta)
		docPart := (float64(dt[k]) + s.Alpha) / docNorm
		p[k] = wordPart * docPart
	}
	if len(ents) == 0 {
		return p
	}

	ewt := st.EntWordTopic.Row(w)
	total := float64(st.entityTokens[m])
	for j, e := range ents {
		et := st.EntTopic.Row(e.ID)
		entNorm := float64(st.EntSum[e.ID]) + tGamma
		off := numTopics * (j + 1)
		for k := range numTopics {
			wordPart := (float64(ewt[k]) + s.Beta) / (float64(st.EntWordTopicSum[k]) + vBeta)
			entPart := (float64(et[k]) + s.Gamma) / entNorm
			p[off+k] = wordPart * entPart / total * float64(e.Count)
		}
	}
	return p
}

// ResampleToken removes token n of document m from the counts of its current
// path, draws a new (topic, path, entity) and inserts it on the chosen path.
// It returns the new topic.
func (s *EntitySampler) ResampleToken(m, n int) (int, error) {
	st := s.State
	w := st.Docs[m][n]
	st.decr(m, w, st.Z[m][n], st.S[m][n], st.Ro[m][n])

	c, err := SampleCategorical(s.conditional(m, w), s.rng)
	if err != nil {
		st.incr(m, w, st.Z[m][n], st.S[m][n], st.Ro[m][n])
		return 0, fmt.Errorf("document %d token %d: %w", m, n, err)
	}

	k := c % st.NumTopics
	sw, h := FromDocument, -1
	if c >= st.NumTopics {
		sw = FromEntity
		h = st.Entities.Of(m)[c/st.NumTopics-1].ID
	}

	st.incr(m, w, k, sw, h)
	st.Z[m][n] = k
	st.S[m][n] = sw
	st.Ro[m][n] = h
	return k, nil
}

// Sweep resamples every token once, documents in order, positions in order.
func (s *EntitySampler) Sweep() error {
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
func (s *EntitySampler) Verify() error {
	return s.State.Verify()
}

// LogLikelihood returns log p(w, z) with the word counts of both paths
// pooled under the flat prior, plus the document and entity mixtures.
func (s *EntitySampler) LogLikelihood() float64 {
	st := s.State
	vBeta := float64(st.VocabSize) * s.Beta
	lgBeta := lgamma(s.Beta)
	ll := 0.0
	for k := range st.NumTopics {
		n := st.DocWordTopicSum[k] + st.EntWordTopicSum[k]
		ll += lgamma(vBeta) - lgamma(float64(n)+vBeta)
	}
	for i := range st.VocabSize {
		dwt := st.DocWordTopic.Row(i)
		ewt := st.EntWordTopic.Row(i)
		for k := range st.NumTopics {
			if c := dwt[k] + ewt[k]; c > 0 {
				ll += lgamma(float64(c)+s.Beta) - lgBeta
			}
		}
	}
	ll += docLogLikelihood(st.DocTopic, st.DocSum, st.NumTopics, s.Alpha)
	ll += docLogLikelihood(st.EntTopic, st.EntSum, st.NumTopics, s.Gamma)
	return ll
}

// Collect adds the current point estimates to acc.
func (s *EntitySampler) Collect(acc *Accumulator) {
	st := s.State
	acc.addTheta(acc.ThetaSum, st.DocTopic, st.DocSum, s.Alpha)
	acc.addTheta(acc.EntityThetaSum, st.EntTopic, st.EntSum, s.Gamma)
	vBeta := float64(st.VocabSize) * s.Beta
	for k := range st.NumTopics {
		row := acc.PhiSum[k]
		norm := float64(st.DocWordTopicSum[k]+st.EntWordTopicSum[k]) + vBeta
		for i := range st.VocabSize {
			c := st.DocWordTopic.Get(i, k) + st.EntWordTopic.Get(i, k)
			row[i] += (float64(c) + s.Beta) / norm
		}
	}
	acc.Samples++
}
