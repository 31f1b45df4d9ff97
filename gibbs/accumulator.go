package gibbs

import "gonum.org/v1/gonum/mat"

// Accumulator keeps running sums of the per-sample point estimates of the
// document-topic, entity-topic and topic-word distributions.
type Accumulator struct {
	ThetaSum       [][]float64 // D x T
	EntityThetaSum [][]float64 // H x T, nil for the plain sampler
	PhiSum         [][]float64 // T x V
	Samples        int
}

// NewAccumulator allocates sums for numDocs documents, numEntities entities
// (zero for the plain sampler), numTopics topics and vocabSize words.
func NewAccumulator(numDocs, numEntities, numTopics, vocabSize int) *Accumulator {
	acc := &Accumulator{
		ThetaSum: zeros(numDocs, numTopics),
		PhiSum:   zeros(numTopics, vocabSize),
	}
	if numEntities > 0 {
		acc.EntityThetaSum = zeros(numEntities, numTopics)
	}
	return acc
}

func zeros(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
	}
	return out
}

// addTheta adds (counts[r][k] + prior) / (sums[r] + T*prior) to dst.
func (a *Accumulator) addTheta(dst [][]float64, counts *Matrix, sums []int, prior float64) {
	_, numTopics := counts.Shape()
	tPrior := float64(numTopics) * prior
	for r, row := range dst {
		norm := float64(sums[r]) + tPrior
		for k, c := range counts.Row(r) {
			row[k] += (float64(c) + prior) / norm
		}
	}
}

// Model holds the averaged distributions of a finished run.
type Model struct {
	Theta       *mat.Dense // document-topic, D x T
	Phi         *mat.Dense // topic-word, T x V
	EntityTheta *mat.Dense // entity-topic, H x T; nil for the plain sampler
	Samples     int
}

// Finalize divides every sum by the number of collected samples.
func (a *Accumulator) Finalize() *Model {
	m := &Model{
		Theta:   average(a.ThetaSum, a.Samples),
		Phi:     average(a.PhiSum, a.Samples),
		Samples: a.Samples,
	}
	if a.EntityThetaSum != nil {
		m.EntityTheta = average(a.EntityThetaSum, a.Samples)
	}
	return m
}

func average(sums [][]float64, n int) *mat.Dense {
	rows := len(sums)
	if rows == 0 {
		return nil
	}
	cols := len(sums[0])
	if cols == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols, nil)
	for r, row := range sums {
		out.SetRow(r, row)
	}
	if n > 0 {
		div := float64(n)
		out.Apply(func(_, _ int, v float64) float64 { return v / div }, out)
	}
	return out
}
