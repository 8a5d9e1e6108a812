package detect

// CandidateKind classifies a statement as a potential source or sink of a
// null dereference.
type CandidateKind string

const (
	// NullBinding is an assignment of a null-equivalent literal to a variable
	NullBinding CandidateKind = "null_binding"
	// MemberAccess is an attribute read or method call on a variable
	MemberAccess CandidateKind = "member_access"
)

// Candidate is a single tagged statement inside one function.
type Candidate struct {
	Kind      CandidateKind
	Variable  string
	Line      int
	Statement string
}

// CandidatePair is a syntactically plausible (source, sink) combination:
// same variable, source line strictly before sink line, same function.
type CandidatePair struct {
	Source   Candidate
	Sink     Candidate
	Variable string
}

// Distance is the number of lines between the null binding and the access.
func (p CandidatePair) Distance() int {
	return p.Sink.Line - p.Source.Line
}
