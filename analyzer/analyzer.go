package analyzer

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/hannajonsd/npd-analysis/detect"
	"github.com/hannajonsd/npd-analysis/oracle"
	"github.com/hannajonsd/npd-analysis/parser"
)

// Analyzer drives the scan: function discovery, candidate extraction,
// pairing, and one oracle judgment per pair. Functions and pairs are
// processed sequentially in discovery order, so verdict order is
// reproducible for deterministic extraction output.
type Analyzer struct {
	oracle oracle.Oracle
	logger hclog.Logger
}

func New(o oracle.Oracle, logger hclog.Logger) *Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Analyzer{
		oracle: o,
		logger: logger,
	}
}

// AnalyzeTarget scans a file, or every supported file under a directory.
// Each file gets its own independent ScanResult. An unreadable target is a
// configuration failure; per-file parse failures are diagnostics.
func (a *Analyzer) AnalyzeTarget(ctx context.Context, target string) ([]ScanResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("cannot read target %s: %w", target, err)
	}

	var files []string
	if info.IsDir() {
		files, err = a.findSourceFiles(target)
		if err != nil {
			return nil, fmt.Errorf("failed to find source files: %w", err)
		}
	} else {
		files = []string{target}
	}
	a.logger.Info("starting scan", "target", target, "files", len(files))

	var results []ScanResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := a.AnalyzeFile(ctx, file)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// AnalyzeFile scans one source file. Extraction failures abort only the
// function (or file) they occur in and are recorded as diagnostics; the
// only error returned is context cancellation.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (ScanResult, error) {
	result := ScanResult{FilePath: path}

	fileParser, err := parser.CreateParser(path)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, extractionDiagnostic(path, "", err))
		return result, nil
	}
	defer fileParser.Close()

	parsed, err := fileParser.ParseFile(path)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, extractionDiagnostic(path, "", err))
		return result, nil
	}
	defer parsed.Tree.Close()

	functions, err := fileParser.ExtractFunctions(parsed)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, extractionDiagnostic(path, "", err))
		return result, nil
	}
	a.logger.Debug("discovered functions", "file", path, "count", len(functions))

	for _, fn := range functions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := a.analyzeFunction(ctx, fn, &result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (a *Analyzer) analyzeFunction(ctx context.Context, fn parser.FunctionUnit, result *ScanResult) error {
	candidates, err := detect.ExtractCandidates(fn)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, extractionDiagnostic(fn.FilePath, fn.Name, err))
		return nil
	}

	pairs := detect.PairCandidates(candidates)
	a.logger.Debug("paired candidates",
		"function", fn.Name, "candidates", len(candidates), "pairs", len(pairs))

	fnResult := FunctionResult{
		Name:      fn.Name,
		StartLine: fn.StartLine,
		EndLine:   fn.EndLine,
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}

		record := PairRecord{Pair: pair, Function: fn.Name, State: StatePending}
		if err := record.Advance(StateQueried); err != nil {
			return err
		}
		a.logger.Debug("querying oracle", "function", fn.Name,
			"variable", pair.Variable, "source", pair.Source.Line, "sink", pair.Sink.Line)

		verdict, err := a.oracle.Judge(ctx, oracle.Request{Function: fn, Pair: pair})
		if err != nil {
			return err
		}
		record.Verdict = verdict
		if err := record.Advance(stateForStatus(verdict.Status)); err != nil {
			return err
		}

		switch verdict.Status {
		case oracle.StatusError:
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				FilePath: fn.FilePath,
				Function: fn.Name,
				Kind:     DiagnosticTransport,
				Message: fmt.Sprintf("judgment calls for %s (line %d -> %d) kept failing",
					pair.Variable, pair.Source.Line, pair.Sink.Line),
			})
		case oracle.StatusInconclusive:
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				FilePath: fn.FilePath,
				Function: fn.Name,
				Kind:     DiagnosticSchema,
				Message: fmt.Sprintf("judgment for %s (line %d -> %d) never matched the expected schema",
					pair.Variable, pair.Source.Line, pair.Sink.Line),
			})
		}

		fnResult.Verdicts = append(fnResult.Verdicts, verdict)
	}

	result.Functions = append(result.Functions, fnResult)
	return nil
}

func extractionDiagnostic(path, function string, err error) Diagnostic {
	return Diagnostic{
		FilePath: path,
		Function: function,
		Kind:     DiagnosticExtraction,
		Message:  err.Error(),
	}
}
