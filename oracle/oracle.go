package oracle

import (
	"context"

	"github.com/hannajonsd/npd-analysis/detect"
	"github.com/hannajonsd/npd-analysis/parser"
)

// VerdictStatus is the terminal outcome of judging one candidate pair.
type VerdictStatus string

const (
	// StatusConfirmed means the judgment found an executable path that
	// reaches the sink while the variable is still null
	StatusConfirmed VerdictStatus = "confirmed"
	// StatusRejected means a guard, reassignment or early return makes the
	// null state unreachable at the sink
	StatusRejected VerdictStatus = "rejected"
	// StatusInconclusive means the judgment responses never matched the
	// expected schema within the retry budget
	StatusInconclusive VerdictStatus = "inconclusive"
	// StatusError means the judgment call itself kept failing
	StatusError VerdictStatus = "error"
)

// Severity tiers reported by the judgment, reused as finding severity.
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"
)

// Request carries one candidate pair plus the full text of its owning
// function, which is everything the judgment gets to reason about.
type Request struct {
	Function parser.FunctionUnit
	Pair     detect.CandidatePair
}

// Verdict is the structured judgment for a single candidate pair. Status is
// terminal once set; re-judging requires a new request.
type Verdict struct {
	Pair             detect.CandidatePair
	Vulnerable       bool
	Severity         string
	TriggerCondition string
	PathDescription  string
	Explanation      string
	Status           VerdictStatus
}

// Oracle is the path-feasibility capability boundary. The real
// implementation talks to an external model; tests substitute a
// deterministic fake.
type Oracle interface {
	Judge(ctx context.Context, req Request) (Verdict, error)
}
