package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

// WriteSARIF renders the findings as a SARIF 2.1.0 document with a single
// CWE-476 rule.
func (r *Report) WriteSARIF(w io.Writer) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, "https://github.com/hannajonsd/npd-analysis")

	for _, finding := range r.AllFindings() {
		rule := run.AddRule(RuleID).
			WithDescription("Null pointer dereference (CWE-476)").
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(finding.Severity),
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(finding.File)).
				WithRegion(sarif.NewRegion().
					WithStartLine(finding.SourceLine).
					WithEndLine(finding.SinkLine)),
		)

		message := fmt.Sprintf("%s: `%s` assigned None on line %d is dereferenced on line %d. %s",
			finding.Function, finding.Variable, finding.SourceLine, finding.SinkLine, finding.Explanation)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(toSarifLevel(finding.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}

	doc.AddRun(run)

	if err := doc.PrettyWrite(w); err != nil {
		return fmt.Errorf("failed to write SARIF report: %w", err)
	}
	return nil
}

func toSarifLevel(severity string) string {
	switch strings.ToUpper(severity) {
	case "CRITICAL", "HIGH":
		return "error"
	case "MEDIUM":
		return "warning"
	case "LOW":
		return "note"
	default:
		return "none"
	}
}
