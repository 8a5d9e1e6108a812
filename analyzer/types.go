package analyzer

import (
	"fmt"

	"github.com/hannajonsd/npd-analysis/detect"
	"github.com/hannajonsd/npd-analysis/oracle"
)

// PairState tracks one candidate pair through the scan:
// Pending -> Queried -> {Confirmed, Rejected, Inconclusive, Errored}.
// Terminal states never transition again.
type PairState int

const (
	StatePending PairState = iota
	StateQueried
	StateConfirmed
	StateRejected
	StateInconclusive
	StateErrored
)

func (s PairState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateQueried:
		return "queried"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	case StateInconclusive:
		return "inconclusive"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s PairState) Terminal() bool {
	return s >= StateConfirmed
}

func (s PairState) canAdvanceTo(next PairState) bool {
	switch s {
	case StatePending:
		return next == StateQueried
	case StateQueried:
		return next.Terminal()
	default:
		return false
	}
}

// PairRecord is the per-pair state machine instance.
type PairRecord struct {
	Pair     detect.CandidatePair
	Function string
	State    PairState
	Verdict  oracle.Verdict
}

// Advance moves the record to the next state, rejecting transitions out of a
// terminal state or skips over the queried phase.
func (r *PairRecord) Advance(next PairState) error {
	if !r.State.canAdvanceTo(next) {
		return fmt.Errorf("invalid pair state transition %s -> %s", r.State, next)
	}
	r.State = next
	return nil
}

func stateForStatus(status oracle.VerdictStatus) PairState {
	switch status {
	case oracle.StatusConfirmed:
		return StateConfirmed
	case oracle.StatusRejected:
		return StateRejected
	case oracle.StatusInconclusive:
		return StateInconclusive
	default:
		return StateErrored
	}
}

// DiagnosticKind classifies a recoverable per-function or per-pair failure.
type DiagnosticKind string

const (
	DiagnosticExtraction DiagnosticKind = "extraction"
	DiagnosticTransport  DiagnosticKind = "transport"
	DiagnosticSchema     DiagnosticKind = "schema"
)

// Diagnostic records a failure that was isolated instead of aborting the
// scan. Diagnostics ride along with findings in every report.
type Diagnostic struct {
	FilePath string         `json:"file"`
	Function string         `json:"function,omitempty"`
	Kind     DiagnosticKind `json:"kind"`
	Message  string         `json:"message"`
}

// FunctionResult groups the verdicts of one function, in pair order.
type FunctionResult struct {
	Name      string
	StartLine int
	EndLine   int
	Verdicts  []oracle.Verdict
}

// ScanResult is the outcome of analyzing one source file.
type ScanResult struct {
	FilePath    string
	Functions   []FunctionResult
	Diagnostics []Diagnostic
}
