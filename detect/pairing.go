package detect

// PairCandidates emits every (NullBinding, MemberAccess) combination that
// shares a variable name with the access strictly after the binding. The
// pairing is a cartesian over-approximation: intervening guards and
// reassignments are ignored here and left for path-feasibility judgment.
// Output order follows candidate order (sources outer, sinks inner), so the
// result is reproducible for a given candidate sequence.
func PairCandidates(candidates []Candidate) []CandidatePair {
	var sources, sinks []Candidate
	for _, c := range candidates {
		switch c.Kind {
		case NullBinding:
			sources = append(sources, c)
		case MemberAccess:
			sinks = append(sinks, c)
		}
	}

	var pairs []CandidatePair
	for _, s := range sources {
		for _, k := range sinks {
			if s.Variable != k.Variable {
				continue
			}
			if k.Line <= s.Line {
				continue
			}
			pairs = append(pairs, CandidatePair{
				Source:   s,
				Sink:     k,
				Variable: s.Variable,
			})
		}
	}

	return pairs
}
