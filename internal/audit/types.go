package audit

import (
	"time"

	"github.com/temirov/depaudit/internal/report"
	"github.com/temirov/depaudit/internal/transport"
)

// CommandOptions captures the resolved parameters of a single report run.
type CommandOptions struct {
	Root       string
	Credential transport.Credential
	OutputPath string
	Host       string
	Port       int
	Summary    bool
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// OutcomeKind distinguishes how a run ended.
type OutcomeKind string

// Outcome kinds produced by Service.Run.
const (
	OutcomeKindCompleted OutcomeKind = "completed"
	OutcomeKindSkipped   OutcomeKind = "skipped"
	OutcomeKindFailed    OutcomeKind = "failed"
)

// Outcome is the tagged result of a run. Bundle is set only for completed runs,
// Reason and Cause only for skipped runs and Failure only for failed runs.
type Outcome struct {
	Kind        OutcomeKind
	Bundle      *report.Bundle
	Destination string
	Reason      string
	Cause       error
	Failure     error
}

// OutcomeCompleted reports a bundle that reached its destination.
func OutcomeCompleted(bundle report.Bundle, destination string) Outcome {
	return Outcome{Kind: OutcomeKindCompleted, Bundle: &bundle, Destination: destination}
}

// OutcomeSkipped reports a run that stopped on an unmet precondition. Cause is
// the sentinel or typed error naming that precondition.
func OutcomeSkipped(reason string, cause error) Outcome {
	return Outcome{Kind: OutcomeKindSkipped, Reason: reason, Cause: cause}
}

// OutcomeFailed reports a run that could not complete.
func OutcomeFailed(failure error) Outcome {
	return Outcome{Kind: OutcomeKindFailed, Failure: failure}
}

// Err returns the failure of a failed run and nil otherwise.
func (outcome Outcome) Err() error {
	if outcome.Kind != OutcomeKindFailed {
		return nil
	}
	return outcome.Failure
}
