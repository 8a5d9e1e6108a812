package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WriteText renders a human-readable summary. All Finding fields appear in
// the output; findings are ordered by severity, then report order.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 70) + "\n")
	fmt.Fprintf(&b, "%s scan report\n", r.Tool)
	fmt.Fprintf(&b, "scan id: %s | generated: %s\n",
		r.ScanID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	fmt.Fprintf(&b, "Files scanned: %d\n", r.Summary.FilesScanned)
	fmt.Fprintf(&b, "Findings:      %d\n", r.Summary.Total)
	for _, severity := range []string{"Critical", "High", "Medium", "Low"} {
		if count := r.Summary.BySeverity[severity]; count > 0 {
			fmt.Fprintf(&b, "  %-8s %d\n", severity, count)
		}
	}

	findings := r.AllFindings()
	sort.SliceStable(findings, func(i, j int) bool {
		return rankOf(findings[i].Severity) < rankOf(findings[j].Severity)
	})

	if len(findings) == 0 {
		b.WriteString("\nNo null pointer dereference found.\n")
	} else {
		titler := cases.Title(language.Und)
		for i, finding := range findings {
			fmt.Fprintf(&b, "\n#%d [%s] %s in %s\n",
				i+1, titler.String(finding.Severity), finding.Function, finding.File)
			fmt.Fprintf(&b, "    function:  lines %d-%d\n",
				finding.FunctionStartLine, finding.FunctionEndLine)
			fmt.Fprintf(&b, "    variable:  %s (line %d -> line %d)\n",
				finding.Variable, finding.SourceLine, finding.SinkLine)
			fmt.Fprintf(&b, "    condition: %s\n", orNone(finding.TriggerCondition))
			fmt.Fprintf(&b, "    path:      %s\n", orNone(finding.PathDescription))
			fmt.Fprintf(&b, "    details:   %s\n", orNone(finding.Explanation))
		}
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\nDiagnostics (%d):\n", len(r.Diagnostics))
		for _, diag := range r.Diagnostics {
			name := diag.FilePath
			if diag.Function != "" {
				name = fmt.Sprintf("%s:%s", diag.FilePath, diag.Function)
			}
			fmt.Fprintf(&b, "  [%s] %s: %s\n", diag.Kind, name, diag.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
