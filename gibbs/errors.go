package gibbs

import (
	"errors"
	"fmt"
)

// ErrDegenerate is returned when a full conditional has no positive mass.
// Strictly positive priors make this impossible, so it signals corrupted
// counts or priors.
var ErrDegenerate = errors.New("gibbs: degenerate conditional distribution")

// Phase names the stage of a run that failed.
type Phase string

const (
	PhaseLoad     Phase = "load"
	PhaseSweep    Phase = "sweep"
	PhaseOptimize Phase = "optimize"
	PhaseReport   Phase = "report"
)

// PhaseError attributes a run failure to a phase and, for sweep and
// optimize failures, to the sweep index.
type PhaseError struct {
	Phase Phase
	Iter  int
	Err   error
}

func (e *PhaseError) Error() string {
	switch e.Phase {
	case PhaseSweep, PhaseOptimize:
		return fmt.Sprintf("%s (sweep %d): %v", e.Phase, e.Iter, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// FailedPhase returns the phase recorded in err, or "" if there is none.
func FailedPhase(err error) Phase {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}
