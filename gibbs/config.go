// Package gibbs implements collapsed Gibbs samplers for LDA and for
// entity-aware LDA, together with the sufficient-statistics store they
// mutate and the accumulator that averages collected samples.
//
// A run is single-threaded: every token resample reads the global counts
// left behind by the previous one. Callers cancel between sweeps through the
// context passed to Run.
package gibbs

import "fmt"

// Config holds the sampler hyperparameters and the run schedule.
type Config struct {
	NumTopics            int     `json:"num_topics"`
	Alpha                float64 `json:"alpha"` // document-topic prior
	Beta                 float64 `json:"beta"`  // flat topic-word prior
	Gamma                float64 `json:"gamma"` // entity-topic prior
	NumIters             int     `json:"num_iters"`
	BurnIn               int     `json:"burn_in"`
	OptimizationInterval int     `json:"optimization_interval"` // 0 disables prior re-estimation
	SampleLags           int     `json:"sample_lags"`
	NumSamples           int     `json:"num_samples"`
	Seed                 int64   `json:"seed"`         // 0 picks a time-based seed
	LogInterval          int     `json:"log_interval"` // sweeps between log-likelihood evaluations, 0 disables
	Verify               bool    `json:"verify"`       // recount statistics after every sweep
}

// DefaultConfig returns the default sampler configuration.
func DefaultConfig() Config {
	return Config{
		NumTopics:            20,
		Alpha:                0.1,
		Beta:                 0.01,
		Gamma:                0.1,
		NumIters:             1000,
		BurnIn:               500,
		OptimizationInterval: 50,
		SampleLags:           10,
		NumSamples:           20,
		LogInterval:          10,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.NumTopics < 1:
		return fmt.Errorf("num_topics must be positive, got %d", c.NumTopics)
	case !(c.Alpha > 0):
		return fmt.Errorf("alpha must be positive, got %g", c.Alpha)
	case !(c.Beta > 0):
		return fmt.Errorf("beta must be positive, got %g", c.Beta)
	case !(c.Gamma > 0):
		return fmt.Errorf("gamma must be positive, got %g", c.Gamma)
	case c.NumIters < 1:
		return fmt.Errorf("num_iters must be positive, got %d", c.NumIters)
	case c.BurnIn < 0 || c.BurnIn >= c.NumIters:
		return fmt.Errorf("burn_in must be in [0, num_iters), got %d", c.BurnIn)
	case c.OptimizationInterval < 0:
		return fmt.Errorf("optimization_interval must not be negative, got %d", c.OptimizationInterval)
	case c.SampleLags < 1:
		return fmt.Errorf("sample_lags must be positive, got %d", c.SampleLags)
	case c.NumSamples < 1:
		return fmt.Errorf("num_samples must be positive, got %d", c.NumSamples)
	case c.LogInterval < 0:
		return fmt.Errorf("log_interval must not be negative, got %d", c.LogInterval)
	}
	return nil
}
