package oracle

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a code security analyst who specializes in " +
	"finding null pointer dereference defects in source code."

// buildPrompt renders the judgment request: full function text, the source
// and sink sites, and an instruction to decide whether any guard makes the
// null state unreachable at the sink.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following function for a null pointer dereference risk.\n\n")
	fmt.Fprintf(&b, "Function `%s` (starts at line %d of %s, line numbers below are absolute):\n",
		req.Function.Name, req.Function.StartLine, req.Function.FilePath)
	fmt.Fprintf(&b, "```python\n%s\n```\n\n", req.Function.Source)

	fmt.Fprintf(&b, "The variable `%s` is assigned None on line %d and its attribute is accessed on line %d.\n\n",
		req.Pair.Variable, req.Pair.Source.Line, req.Pair.Sink.Line)

	b.WriteString("Carefully reason about every execution path from the assignment to the access:\n")
	fmt.Fprintf(&b, "1. Is there a path on which `%s` is still None when line %d executes?\n",
		req.Pair.Variable, req.Pair.Sink.Line)
	b.WriteString("2. Does a conditional check, early return, exception handler, reassignment, " +
		"or default-value substitution make the null state unreachable at the access?\n")
	b.WriteString("3. If a dangerous path exists, describe the condition that triggers it.\n\n")

	b.WriteString("Answer with exactly this JSON object and nothing else (no markdown fences):\n")
	b.WriteString(`{
    "has_dangerous_path": true,
    "path_description": "how execution reaches the access while the variable is None",
    "trigger_condition": "e.g. flag == False",
    "is_bug": true,
    "severity": "High",
    "reason": "why this is or is not a real defect"
}
`)
	b.WriteString("\nConstraints: severity must be one of Critical, High, Medium, Low. " +
		"Set is_bug to false when the access is protected by a guard.")

	return b.String()
}
