package gibbs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChain struct {
	sweeps   int
	collects int
	sweepErr error
}

func (c *countingChain) Sweep() error {
	c.sweeps++
	return c.sweepErr
}

func (c *countingChain) Verify() error          { return nil }
func (c *countingChain) LogLikelihood() float64 { return -float64(c.sweeps) }

func (c *countingChain) Collect(acc *Accumulator) {
	c.collects++
	acc.Samples++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scheduleConfig() Config {
	cfg := DefaultConfig()
	cfg.NumIters = 30
	cfg.BurnIn = 10
	cfg.SampleLags = 5
	cfg.NumSamples = 3
	cfg.OptimizationInterval = 4
	cfg.LogInterval = 5
	return cfg
}

func TestRunSchedule(t *testing.T) {
	var optimizedAt []int
	r := &Runner{
		Config: scheduleConfig(),
		Optimize: func(iter int) error {
			optimizedAt = append(optimizedAt, iter)
			return nil
		},
		Logger: quietLogger(),
	}
	chain := &countingChain{}
	acc := NewAccumulator(0, 0, 0, 0)

	trace, err := r.Run(context.Background(), chain, acc)
	require.NoError(t, err)
	assert.Equal(t, 21, trace.Sweeps)
	assert.Equal(t, 21, chain.sweeps)
	assert.Equal(t, 3, trace.Samples)
	assert.Equal(t, 3, acc.Samples)
	assert.Equal(t, []int{10, 14, 18}, optimizedAt)
	assert.Equal(t, 3, trace.Optimizations)
	assert.Equal(t, []int{5, 10, 15, 20}, trace.LoggedSweeps)
	assert.Equal(t, []float64{-5, -10, -15, -20}, trace.LogLikelihood)
}

func TestRunCollectsFinalStateWhenNothingSampled(t *testing.T) {
	cfg := scheduleConfig()
	cfg.NumIters = 5
	r := &Runner{Config: cfg, Logger: quietLogger()}
	chain := &countingChain{}
	acc := NewAccumulator(0, 0, 0, 0)

	trace, err := r.Run(context.Background(), chain, acc)
	require.NoError(t, err)
	assert.Equal(t, 5, trace.Sweeps)
	assert.Equal(t, 1, trace.Samples)
	assert.Equal(t, 1, chain.collects)
}

func TestRunWrapsOptimizeError(t *testing.T) {
	boom := errors.New("line search failed")
	r := &Runner{
		Config:   scheduleConfig(),
		Optimize: func(int) error { return boom },
		Logger:   quietLogger(),
	}
	_, err := r.Run(context.Background(), &countingChain{}, NewAccumulator(0, 0, 0, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, PhaseOptimize, FailedPhase(err))

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 10, pe.Iter)
}

func TestRunWrapsSweepError(t *testing.T) {
	r := &Runner{Config: scheduleConfig(), Logger: quietLogger()}
	chain := &countingChain{sweepErr: ErrDegenerate}
	_, err := r.Run(context.Background(), chain, NewAccumulator(0, 0, 0, 0))
	assert.ErrorIs(t, err, ErrDegenerate)
	assert.Equal(t, PhaseSweep, FailedPhase(err))
	assert.Equal(t, 1, chain.sweeps)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Config: scheduleConfig(), Logger: quietLogger()}
	chain := &countingChain{}
	trace, err := r.Run(ctx, chain, NewAccumulator(0, 0, 0, 0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, trace.Sweeps)
	assert.Zero(t, chain.sweeps)
}

func TestRunLDAEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumTopics = 2
	cfg.NumIters = 40
	cfg.BurnIn = 20
	cfg.SampleLags = 2
	cfg.NumSamples = 5
	cfg.OptimizationInterval = 0
	cfg.Verify = true

	s := newLDA(smallDocs, 5, cfg.NumTopics, cfg.Alpha, cfg.Beta, 21)
	acc := NewAccumulator(len(smallDocs), 0, cfg.NumTopics, 5)
	r := &Runner{Config: cfg, Logger: quietLogger()}
	trace, err := r.Run(context.Background(), s, acc)
	require.NoError(t, err)
	assert.Equal(t, 5, trace.Samples)
	assert.Equal(t, 29, trace.Sweeps)

	model := acc.Finalize()
	for _, m := range []struct {
		rows, cols int
		at         func(i, j int) float64
	}{
		{len(smallDocs), 2, model.Theta.At},
		{2, 5, model.Phi.At},
	} {
		for i := range m.rows {
			total := 0.0
			for j := range m.cols {
				total += m.at(i, j)
			}
			assert.InDelta(t, 1.0, total, 1e-12)
		}
	}
	assert.Nil(t, model.EntityTheta)
}
