package cli

import (
	"fmt"
	"log/slog"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	lda "github.com/archanas28/trungng-sub002"
)

// runFlags are shared by the sampling commands. Sampler and prior settings
// override config.json only when given explicitly.
type runFlags struct {
	dataFolder string
	output     string
	name       string
	topWords   int
	topTopics  int
	profile    string

	topics       int
	alpha        float64
	beta         float64
	gamma        float64
	iters        int
	burnIn       int
	optInterval  int
	sampleLags   int
	samples      int
	seed         int64
	logInterval  int
	verify       bool
	graphWeight  float64
	offsetWeight float64
}

func (f *runFlags) register(cmd *cobra.Command, withPrior bool) {
	d := lda.DefaultTrainConfig()
	fl := cmd.Flags()
	fl.StringVar(&f.dataFolder, "data-folder", "data", "Path to the data folder")
	fl.StringVarP(&f.output, "output", "o", "out", "Directory for the report files")
	fl.StringVar(&f.name, "name", "model", "Base name of the report files")
	fl.IntVar(&f.topWords, "top-words", 20, "Words listed per topic")
	fl.IntVar(&f.topTopics, "top-topics", 5, "Topics listed per document or entity")
	fl.StringVar(&f.profile, "profile", "", "Write a cpu or mem profile into the output directory")

	fl.IntVarP(&f.topics, "topics", "k", d.Sampler.NumTopics, "Number of topics")
	fl.Float64Var(&f.alpha, "alpha", d.Sampler.Alpha, "Document-topic prior")
	fl.Float64Var(&f.beta, "beta", d.Sampler.Beta, "Flat topic-word prior")
	fl.IntVar(&f.iters, "iters", d.Sampler.NumIters, "Maximum number of sweeps")
	fl.IntVar(&f.burnIn, "burn-in", d.Sampler.BurnIn, "Sweeps before samples are collected")
	fl.IntVar(&f.sampleLags, "sample-lags", d.Sampler.SampleLags, "Sweeps between collected samples")
	fl.IntVar(&f.samples, "samples", d.Sampler.NumSamples, "Samples to average")
	fl.Int64Var(&f.seed, "seed", d.Sampler.Seed, "Random seed, 0 for a time-based seed")
	fl.IntVar(&f.logInterval, "log-interval", d.Sampler.LogInterval, "Sweeps between log-likelihood evaluations, 0 to disable")
	fl.BoolVar(&f.verify, "verify", d.Sampler.Verify, "Recount all statistics after every sweep")

	if withPrior {
		fl.IntVar(&f.optInterval, "opt-interval", d.Sampler.OptimizationInterval, "Sweeps between prior re-estimations after burn-in, 0 for a flat prior")
		fl.Float64Var(&f.graphWeight, "graph-weight", d.Prior.GraphWeight, "Word graph smoothness penalty")
		fl.Float64Var(&f.offsetWeight, "offset-weight", d.Prior.OffsetWeight, "L2 penalty on word offsets")
	} else {
		fl.Float64Var(&f.gamma, "gamma", d.Sampler.Gamma, "Entity-topic prior")
	}
}

// config reads config.json from the data folder and applies the flags the
// user set.
func (f *runFlags) config(cmd *cobra.Command) (lda.TrainConfig, error) {
	cfg, err := lda.LoadTrainConfig(f.dataFolder)
	if err != nil {
		return cfg, err
	}
	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}
	s := &cfg.Sampler
	set("topics", func() { s.NumTopics = f.topics })
	set("alpha", func() { s.Alpha = f.alpha })
	set("beta", func() { s.Beta = f.beta })
	set("gamma", func() { s.Gamma = f.gamma })
	set("iters", func() { s.NumIters = f.iters })
	set("burn-in", func() { s.BurnIn = f.burnIn })
	set("opt-interval", func() { s.OptimizationInterval = f.optInterval })
	set("sample-lags", func() { s.SampleLags = f.sampleLags })
	set("samples", func() { s.NumSamples = f.samples })
	set("seed", func() { s.Seed = f.seed })
	set("log-interval", func() { s.LogInterval = f.logInterval })
	set("verify", func() { s.Verify = f.verify })
	set("graph-weight", func() { cfg.Prior.GraphWeight = f.graphWeight })
	set("offset-weight", func() { cfg.Prior.OffsetWeight = f.offsetWeight })
	return cfg, nil
}

type stopper interface{ Stop() }

type noopStopper struct{}

func (noopStopper) Stop() {}

// startProfile starts the profiler selected by --profile.
func (f *runFlags) startProfile() (stopper, error) {
	var mode func(*profile.Profile)
	switch f.profile {
	case "":
		return noopStopper{}, nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile %q, want cpu or mem", f.profile)
	}
	slog.Info("Profiling", "mode", f.profile, "path", f.output)
	return profile.Start(mode, profile.ProfilePath(f.output), profile.Quiet, profile.NoShutdownHook), nil
}
