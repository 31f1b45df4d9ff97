package prior

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/archanas28/trungng-sub002/corpus"
	"github.com/archanas28/trungng-sub002/gibbs"
	"github.com/archanas28/trungng-sub002/lbfgs"
)

// Config holds the prior penalty weights and solver settings.
type Config struct {
	GraphWeight   float64 `json:"graph_weight"`  // smoothness penalty over graph edges
	OffsetWeight  float64 `json:"offset_weight"` // L2 penalty on the word offsets
	Memory        int     `json:"memory"`        // L-BFGS correction pairs
	Epsilon       float64 `json:"epsilon"`       // relative gradient norm tolerance
	MaxIterations int     `json:"max_iterations"`
	MaxStep       float64 `json:"max_step"` // largest change of any y in one solver step, 0 for no limit
}

// DefaultConfig returns the default prior configuration.
func DefaultConfig() Config {
	return Config{
		GraphWeight:   1,
		OffsetWeight:  1,
		Memory:        6,
		Epsilon:       1e-5,
		MaxIterations: 1000,
		MaxStep:       5,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.GraphWeight < 0:
		return fmt.Errorf("graph_weight must not be negative, got %g", c.GraphWeight)
	case c.OffsetWeight < 0:
		return fmt.Errorf("offset_weight must not be negative, got %g", c.OffsetWeight)
	case c.Memory < 1:
		return fmt.Errorf("memory must be positive, got %d", c.Memory)
	case !(c.Epsilon > 0):
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	case c.MaxIterations < 1:
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	case c.MaxStep < 0:
		return fmt.Errorf("max_step must not be negative, got %g", c.MaxStep)
	}
	return nil
}

func (c Config) settings() lbfgs.Settings {
	s := lbfgs.DefaultSettings()
	s.Memory = c.Memory
	s.Epsilon = c.Epsilon
	s.MaxIterations = c.MaxIterations
	s.MaxStep = c.MaxStep
	return s
}

// Params are the free variables of the prior.
type Params struct {
	Y     [][]float64 // T x V
	YWord []float64   // V
}

// Optimizer owns the free variables between calls, so every optimization
// starts from the previous optimum.
type Optimizer struct {
	Config    Config
	Graph     *corpus.WordGraph
	NumTopics int
	VocabSize int

	x []float64
}

// NewOptimizer creates an optimizer with y and yWord at zero. graph may be
// nil, in which case only the offset penalty applies.
func NewOptimizer(graph *corpus.WordGraph, numTopics, vocabSize int, cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if graph != nil && graph.NumWords() > vocabSize {
		return nil, fmt.Errorf("word graph has %d words, vocabulary has %d", graph.NumWords(), vocabSize)
	}
	return &Optimizer{
		Config:    cfg,
		Graph:     graph,
		NumTopics: numTopics,
		VocabSize: vocabSize,
		x:         make([]float64, (numTopics+1)*vocabSize),
	}, nil
}

// InitialPrior returns the prior implied by the current variables. For a
// fresh optimizer every beta is exp(0) = 1.
func (o *Optimizer) InitialPrior() *gibbs.Prior {
	pr := &gibbs.Prior{
		Beta:    make([][]float64, o.NumTopics),
		SumBeta: make([]float64, o.NumTopics),
	}
	for k := range pr.Beta {
		pr.Beta[k] = make([]float64, o.VocabSize)
	}
	o.apply(o.x, pr)
	return pr
}

// Params returns a copy of the current variables.
func (o *Optimizer) Params() Params {
	v := o.VocabSize
	p := Params{
		Y:     make([][]float64, o.NumTopics),
		YWord: append([]float64(nil), o.x[o.NumTopics*v:]...),
	}
	for k := range p.Y {
		p.Y[k] = append([]float64(nil), o.x[k*v:(k+1)*v]...)
	}
	return p
}

// Optimize fits the prior to the assignments in st. pr is updated after
// every solver step, so on failure it holds the last accepted iterate.
func (o *Optimizer) Optimize(st *gibbs.State, pr *gibbs.Prior) (lbfgs.Result, error) {
	if st.NumTopics != o.NumTopics || st.VocabSize != o.VocabSize {
		return lbfgs.Result{}, fmt.Errorf("state is %dx%d, optimizer is %dx%d",
			st.NumTopics, st.VocabSize, o.NumTopics, o.VocabSize)
	}
	obj := NewObjective(st, o.Graph, o.Config.GraphWeight, o.Config.OffsetWeight)
	res, err := lbfgs.Minimize(obj, o.x, o.Config.settings(), func(x []float64) {
		o.apply(x, pr)
	})
	if err != nil {
		return res, fmt.Errorf("prior optimization after %d iterations: %w", res.Iterations, err)
	}
	o.apply(o.x, pr)
	slog.Info("Prior optimized",
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
		"objective", res.F,
		"gradient_norm", res.GradNorm)
	return res, nil
}

// apply sets beta[k][i] = exp(y[k][i] + yWord[i]) and recomputes the sums.
func (o *Optimizer) apply(x []float64, pr *gibbs.Prior) {
	v := o.VocabSize
	word := x[o.NumTopics*v:]
	for k, row := range pr.Beta {
		y := x[k*v : (k+1)*v]
		for i := range row {
			row[i] = math.Exp(y[i] + word[i])
		}
	}
	pr.Resum()
}
