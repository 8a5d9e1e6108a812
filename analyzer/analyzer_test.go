package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/npd-analysis/oracle"
)

// fakeOracle replays canned verdicts keyed by "variable:source->sink" and
// records every request it receives, in order.
type fakeOracle struct {
	verdicts map[string]oracle.Verdict
	calls    []oracle.Request
}

func (f *fakeOracle) Judge(ctx context.Context, req oracle.Request) (oracle.Verdict, error) {
	f.calls = append(f.calls, req)

	key := fmt.Sprintf("%s:%d->%d", req.Pair.Variable, req.Pair.Source.Line, req.Pair.Sink.Line)
	verdict, ok := f.verdicts[key]
	if !ok {
		verdict = oracle.Verdict{Status: oracle.StatusRejected}
	}
	verdict.Pair = req.Pair
	return verdict, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const bugSource = `def leak(flag):
    user = None
    if flag:
        user = load_user()
    return user.name
`

func TestAnalyzeFileConfirmedBug(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bug.py", bugSource)

	fake := &fakeOracle{verdicts: map[string]oracle.Verdict{
		"user:2->5": {
			Vulnerable:       true,
			Severity:         oracle.SeverityHigh,
			TriggerCondition: "flag == False",
			Explanation:      "no guard between binding and access",
			Status:           oracle.StatusConfirmed,
		},
	}}

	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "leak", result.Functions[0].Name)

	verdicts := result.Functions[0].Verdicts
	require.Len(t, verdicts, 1)
	assert.Equal(t, oracle.StatusConfirmed, verdicts[0].Status)
	assert.Equal(t, 2, verdicts[0].Pair.Source.Line)
	assert.Equal(t, 5, verdicts[0].Pair.Sink.Line)
	assert.Empty(t, result.Diagnostics)
}

func TestAnalyzeFileGuardedStillQueried(t *testing.T) {
	// pairing is guard-blind, so the oracle is still consulted once and its
	// rejection is what keeps the pair out of the findings
	path := writeFile(t, t.TempDir(), "safe.py", `def safe():
    user = None
    if user is not None:
        return user.name
    return "default"
`)

	fake := &fakeOracle{verdicts: map[string]oracle.Verdict{
		"user:2->4": {Vulnerable: false, Status: oracle.StatusRejected},
	}}

	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	require.Len(t, result.Functions, 1)
	require.Len(t, result.Functions[0].Verdicts, 1)
	assert.Equal(t, oracle.StatusRejected, result.Functions[0].Verdicts[0].Status)
}

func TestAnalyzeFileOracleFailureIsolation(t *testing.T) {
	// an errored pair must not block verdicts for the remaining pairs
	path := writeFile(t, t.TempDir(), "two_sinks.py", `def two(flag):
    user = None
    print(user.first)
    print(user.second)
`)

	fake := &fakeOracle{verdicts: map[string]oracle.Verdict{
		"user:2->3": {Status: oracle.StatusError},
		"user:2->4": {Vulnerable: true, Severity: oracle.SeverityMedium, Status: oracle.StatusConfirmed},
	}}

	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	require.Len(t, result.Functions, 1)
	verdicts := result.Functions[0].Verdicts
	require.Len(t, verdicts, 2)
	assert.Equal(t, oracle.StatusError, verdicts[0].Status)
	assert.Equal(t, oracle.StatusConfirmed, verdicts[1].Status)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, DiagnosticTransport, result.Diagnostics[0].Kind)
	assert.Equal(t, "two", result.Diagnostics[0].Function)
}

func TestAnalyzeFileInconclusiveDiagnostic(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bug.py", bugSource)

	fake := &fakeOracle{verdicts: map[string]oracle.Verdict{
		"user:2->5": {Status: oracle.StatusInconclusive},
	}}

	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, DiagnosticSchema, result.Diagnostics[0].Kind)
}

func TestAnalyzeFileNoCandidatesNoOracleCalls(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clean.py", `def clean(a, b):
    return a + b
`)

	fake := &fakeOracle{}
	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, fake.calls)
	require.Len(t, result.Functions, 1)
	assert.Empty(t, result.Functions[0].Verdicts)
	assert.Empty(t, result.Diagnostics)
}

func TestAnalyzeFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "x = None\n")

	fake := &fakeOracle{}
	result, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, fake.calls)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, DiagnosticExtraction, result.Diagnostics[0].Kind)
}

func TestAnalyzeFileVerdictOrderFollowsPairOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ordered.py", `def ordered():
    a = None
    b = None
    print(a.x)
    print(b.y)
`)

	fake := &fakeOracle{}
	_, err := New(fake, nil).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "a", fake.calls[0].Pair.Variable)
	assert.Equal(t, "b", fake.calls[1].Pair.Variable)
}

func TestAnalyzeTargetDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", bugSource)
	writeFile(t, dir, "b.py", "def empty():\n    pass\n")
	writeFile(t, dir, "readme.txt", "not source")
	writeFile(t, dir, ".gitignore", "skipped.py\n")
	writeFile(t, dir, "skipped.py", bugSource)

	fake := &fakeOracle{}
	results, err := New(fake, nil).AnalyzeTarget(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "a.py"), results[0].FilePath)
	assert.Equal(t, filepath.Join(dir, "b.py"), results[1].FilePath)
}

func TestAnalyzeTargetMissingPath(t *testing.T) {
	_, err := New(&fakeOracle{}, nil).AnalyzeTarget(context.Background(), "/does/not/exist")
	assert.Error(t, err)
}

func TestAnalyzeTargetCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", bugSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeOracle{}, nil).AnalyzeTarget(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPairStateTransitions(t *testing.T) {
	record := PairRecord{State: StatePending}

	require.NoError(t, record.Advance(StateQueried))
	require.NoError(t, record.Advance(StateConfirmed))
	assert.True(t, record.State.Terminal())

	// terminal states never move again
	assert.Error(t, record.Advance(StateQueried))
	assert.Error(t, record.Advance(StateRejected))
}

func TestPairStateCannotSkipQueried(t *testing.T) {
	record := PairRecord{State: StatePending}
	assert.Error(t, record.Advance(StateConfirmed))
	assert.Equal(t, StatePending, record.State)
}

func TestStateForStatus(t *testing.T) {
	assert.Equal(t, StateConfirmed, stateForStatus(oracle.StatusConfirmed))
	assert.Equal(t, StateRejected, stateForStatus(oracle.StatusRejected))
	assert.Equal(t, StateInconclusive, stateForStatus(oracle.StatusInconclusive))
	assert.Equal(t, StateErrored, stateForStatus(oracle.StatusError))
}
