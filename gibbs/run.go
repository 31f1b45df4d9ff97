package gibbs

import (
	"context"
	"fmt"
	"log/slog"
)

// Chain is a Markov chain driven by a Runner. LDASampler and EntitySampler
// implement it.
type Chain interface {
	Sweep() error
	Verify() error
	LogLikelihood() float64
	Collect(acc *Accumulator)
}

// OptimizeFunc re-estimates the prior after sweep iter.
type OptimizeFunc func(iter int) error

// Trace records what a run did.
type Trace struct {
	Sweeps        int
	Samples       int
	Optimizations int

	// LogLikelihood[j] was measured after sweep LoggedSweeps[j].
	LoggedSweeps  []int
	LogLikelihood []float64
}

// Runner drives a chain through burn-in, prior re-estimation and sample
// collection.
type Runner struct {
	Config   Config
	Optimize OptimizeFunc // nil disables prior re-estimation
	Logger   *slog.Logger // nil uses slog.Default()
}

// Run executes up to Config.NumIters sweeps. After BurnIn sweeps the prior
// is re-estimated every OptimizationInterval sweeps and a sample is collected
// every SampleLags sweeps; the run stops as soon as NumSamples samples are in
// acc. ctx is checked between sweeps only.
func (r *Runner) Run(ctx context.Context, chain Chain, acc *Accumulator) (*Trace, error) {
	cfg := r.Config
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	trace := &Trace{}

	for iter := range cfg.NumIters {
		if err := ctx.Err(); err != nil {
			return trace, fmt.Errorf("stopped before sweep %d: %w", iter, err)
		}

		if err := chain.Sweep(); err != nil {
			return trace, &PhaseError{Phase: PhaseSweep, Iter: iter, Err: err}
		}
		trace.Sweeps++
		if cfg.Verify {
			if err := chain.Verify(); err != nil {
				return trace, &PhaseError{Phase: PhaseSweep, Iter: iter, Err: err}
			}
		}

		if cfg.LogInterval > 0 && (iter+1)%cfg.LogInterval == 0 {
			ll := chain.LogLikelihood()
			trace.LoggedSweeps = append(trace.LoggedSweeps, iter+1)
			trace.LogLikelihood = append(trace.LogLikelihood, ll)
			log.Debug("Gibbs sweep", "iteration", iter+1, "loglik", ll)
		}
		if iter+1 == cfg.BurnIn {
			log.Info("Burn-in complete", "iteration", iter+1)
		}
		if iter < cfg.BurnIn {
			continue
		}

		since := iter - cfg.BurnIn
		if r.Optimize != nil && cfg.OptimizationInterval > 0 && since%cfg.OptimizationInterval == 0 {
			if err := r.Optimize(iter); err != nil {
				return trace, &PhaseError{Phase: PhaseOptimize, Iter: iter, Err: err}
			}
			trace.Optimizations++
		}

		if since%cfg.SampleLags == 0 {
			chain.Collect(acc)
			trace.Samples++
			log.Debug("Sample collected", "iteration", iter+1, "samples", acc.Samples)
			if acc.Samples >= cfg.NumSamples {
				break
			}
		}
	}

	if acc.Samples == 0 {
		log.Warn("No sample collected during the run, using the final state", "sweeps", trace.Sweeps)
		chain.Collect(acc)
		trace.Samples++
	}
	return trace, nil
}
