// Package prior re-estimates the asymmetric topic-word prior of the plain
// LDA sampler. The prior is beta[k][i] = exp(y[k][i] + yWord[i]); y and yWord
// are fitted by L-BFGS to the collapsed word likelihood of the current
// assignments, with a smoothness penalty that pulls y of words joined in the
// word similarity graph together and an L2 penalty on yWord.
package prior

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
)

// Objective is the penalized negative collapsed word log-likelihood as a
// function of the flat variable vector
//
//	x[k*V + i] = y[k][i],  x[T*V + i] = yWord[i].
//
// It only reads the sampler state.
type Objective struct {
	State        *gibbs.State
	GraphWeight  float64
	OffsetWeight float64

	edges   [][2]int
	beta    [][]float64
	sumBeta []float64
}

// NewObjective builds the objective for st. graph may be nil.
func NewObjective(st *gibbs.State, graph *corpus.WordGraph, graphWeight, offsetWeight float64) *Objective {
	o := &Objective{
		State:        st,
		GraphWeight:  graphWeight,
		OffsetWeight: offsetWeight,
		beta:         make([][]float64, st.NumTopics),
		sumBeta:      make([]float64, st.NumTopics),
	}
	if graph != nil {
		o.edges = graph.Edges()
	}
	for k := range o.beta {
		o.beta[k] = make([]float64, st.VocabSize)
	}
	return o
}

// Dim returns the number of free variables, (T+1)*V.
func (o *Objective) Dim() int {
	return (o.State.NumTopics + 1) * o.State.VocabSize
}

// Evaluate returns
//
//	sum_k [lgamma(n_k + sb_k) - lgamma(sb_k)]
//	  + sum_k sum_{i: c_ik > 0} [lgamma(b_ki) - lgamma(b_ki + c_ik)]
//	  + GraphWeight/2 * sum_{(i,j) in E} sum_k (y_ki - y_kj)^2
//	  + OffsetWeight/2 * sum_i yWord_i^2
//
// and writes its gradient into grad. Points where some beta or sumBeta is
// zero or overflows evaluate to +Inf.
func (o *Objective) Evaluate(x, grad []float64) float64 {
	st := o.State
	numTopics, vocabSize := st.NumTopics, st.VocabSize
	word := x[numTopics*vocabSize:]
	gWord := grad[numTopics*vocabSize:]

	clear(grad)
	for k := range numTopics {
		y := x[k*vocabSize : (k+1)*vocabSize]
		sb := 0.0
		for i, v := range y {
			b := math.Exp(v + word[i])
			if !(b > 0) || math.IsInf(b, 0) {
				return math.Inf(1)
			}
			o.beta[k][i] = b
			sb += b
		}
		if math.IsInf(sb, 0) {
			return math.Inf(1)
		}
		o.sumBeta[k] = sb
	}

	f := 0.0
	for k := range numTopics {
		n := float64(st.TopicSum[k])
		sb := o.sumBeta[k]
		f += logRising(sb, n)
		common := digammaDiff(sb, n)

		gy := grad[k*vocabSize : (k+1)*vocabSize]
		for i, b := range o.beta[k] {
			d := common
			if c := st.WordTopic.Get(i, k); c > 0 {
				f -= logRising(b, float64(c))
				d -= digammaDiff(b, float64(c))
			}
			gy[i] += b * d
			gWord[i] += b * d
		}
	}

	if o.GraphWeight != 0 {
		for _, e := range o.edges {
			i, j := e[0], e[1]
			for k := range numTopics {
				off := k * vocabSize
				diff := x[off+i] - x[off+j]
				f += 0.5 * o.GraphWeight * diff * diff
				grad[off+i] += o.GraphWeight * diff
				grad[off+j] -= o.GraphWeight * diff
			}
		}
	}

	for i, v := range word {
		f += 0.5 * o.OffsetWeight * v * v
		gWord[i] += o.OffsetWeight * v
	}
	return f
}

const (
	// Counts up to shortRun are expanded into exact sums.
	shortRun = 32
	// From asymptotic on, lgamma and digamma differences use the Stirling
	// series, which avoids cancelling two huge values.
	asymptotic = 100
)

// logRising returns lgamma(a+n) - lgamma(a), the log of the rising
// factorial a(a+1)...(a+n-1) for integer n.
func logRising(a, n float64) float64 {
	switch {
	case n == 0:
		return 0
	case n <= shortRun:
		s := 0.0
		for j := 0.0; j < n; j++ {
			s += math.Log(a + j)
		}
		return s
	case a >= asymptotic:
		b := a + n
		return (a-0.5)*math.Log1p(n/a) + n*math.Log(b) - n + stirlingTail(b) - stirlingTail(a)
	}
	return lgamma(a+n) - lgamma(a)
}

// digammaDiff returns digamma(a+n) - digamma(a), the derivative of
// logRising in a.
func digammaDiff(a, n float64) float64 {
	switch {
	case n == 0:
		return 0
	case n <= shortRun:
		s := 0.0
		for j := 0.0; j < n; j++ {
			s += 1 / (a + j)
		}
		return s
	case a >= asymptotic:
		return math.Log1p(n/a) + digammaTail(a+n) - digammaTail(a)
	}
	return mathext.Digamma(a+n) - mathext.Digamma(a)
}

// stirlingTail is lgamma(x) - (x-1/2)log(x) + x - log(2*pi)/2 up to x^-7.
func stirlingTail(x float64) float64 {
	r := 1 / x
	r2 := r * r
	return r * (1.0/12 - r2*(1.0/360-r2*(1.0/1260-r2/1680)))
}

// digammaTail is digamma(x) - log(x), the derivative of stirlingTail - 1/(2x).
func digammaTail(x float64) float64 {
	r := 1 / x
	r2 := r * r
	return -r/2 - r2*(1.0/12-r2*(1.0/120-r2*(1.0/252-r2/240)))
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
