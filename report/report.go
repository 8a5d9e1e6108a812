package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/hannajonsd/npd-analysis/analyzer"
	"github.com/hannajonsd/npd-analysis/oracle"
)

const (
	// ToolName identifies the scanner in reports
	ToolName = "npd-analysis"
	// RuleID is the single rule every finding maps to (CWE-476)
	RuleID = "NPD001"
)

// Finding is the reportable projection of one confirmed verdict.
type Finding struct {
	Function          string `json:"function"`
	FunctionStartLine int    `json:"function_start_line"`
	FunctionEndLine   int    `json:"function_end_line"`
	File              string `json:"file"`
	Variable          string `json:"variable"`
	SourceLine        int    `json:"source_line"`
	SinkLine          int    `json:"sink_line"`
	Severity          string `json:"severity"`
	TriggerCondition  string `json:"trigger_condition"`
	PathDescription   string `json:"path_description"`
	Explanation       string `json:"explanation"`
}

// FileFindings groups findings per scanned file, preserving function
// discovery order and pair order within each function.
type FileFindings struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// Summary aggregates finding counts for the scan.
type Summary struct {
	Total        int            `json:"total"`
	FilesScanned int            `json:"files_scanned"`
	BySeverity   map[string]int `json:"by_severity"`
}

// Report is the final artifact of one scan. It is never mutated after Build.
type Report struct {
	Tool          string                `json:"tool"`
	ScanID        string                `json:"scan_id"`
	GeneratedAt   time.Time             `json:"generated_at"`
	TotalFindings int                   `json:"total_findings"`
	Files         []FileFindings        `json:"files"`
	Summary       Summary               `json:"summary"`
	Diagnostics   []analyzer.Diagnostic `json:"diagnostics,omitempty"`
}

// Build filters the accumulated verdicts down to confirmed ones, projects
// them into findings, and groups them by file and function.
func Build(results []analyzer.ScanResult) *Report {
	r := &Report{
		Tool:        ToolName,
		ScanID:      uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Summary:     Summary{BySeverity: make(map[string]int)},
	}

	for _, result := range results {
		r.Summary.FilesScanned++
		r.Diagnostics = append(r.Diagnostics, result.Diagnostics...)

		fileFindings := FileFindings{File: result.FilePath}
		for _, fn := range result.Functions {
			for _, verdict := range fn.Verdicts {
				if verdict.Status != oracle.StatusConfirmed {
					continue
				}
				finding := Finding{
					Function:          fn.Name,
					FunctionStartLine: fn.StartLine,
					FunctionEndLine:   fn.EndLine,
					File:              result.FilePath,
					Variable:          verdict.Pair.Variable,
					SourceLine:        verdict.Pair.Source.Line,
					SinkLine:          verdict.Pair.Sink.Line,
					Severity:          verdict.Severity,
					TriggerCondition:  verdict.TriggerCondition,
					PathDescription:   verdict.PathDescription,
					Explanation:       verdict.Explanation,
				}
				fileFindings.Findings = append(fileFindings.Findings, finding)
				r.Summary.BySeverity[finding.Severity]++
				r.TotalFindings++
			}
		}
		if len(fileFindings.Findings) > 0 {
			r.Files = append(r.Files, fileFindings)
		}
	}

	r.Summary.Total = r.TotalFindings
	return r
}

// AllFindings flattens the grouped findings in report order.
func (r *Report) AllFindings() []Finding {
	var findings []Finding
	for _, file := range r.Files {
		findings = append(findings, file.Findings...)
	}
	return findings
}

var severityRank = map[string]int{
	oracle.SeverityCritical: 0,
	oracle.SeverityHigh:     1,
	oracle.SeverityMedium:   2,
	oracle.SeverityLow:      3,
}

func rankOf(severity string) int {
	if rank, ok := severityRank[severity]; ok {
		return rank
	}
	return len(severityRank)
}
