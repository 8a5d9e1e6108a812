package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// errFindingsPresent signals a completed scan that confirmed at least one
// defect; it maps to exit code 1, distinct from fatal failures (2).
var errFindingsPresent = errors.New("confirmed findings present")

var rootCmd = &cobra.Command{
	Use:                   "npd-analysis [command]",
	SilenceUsage:          true,
	SilenceErrors:         true,
	DisableFlagsInUseLine: true,
	Short:                 "LLM-assisted null pointer dereference scanner",
	Long: `npd-analysis pairs statically extracted null assignments with later
attribute accesses and asks an external judgment model whether an executable
path connects them, then reports the confirmed pairs.`,
}

func init() {
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

// Execute runs the command tree. Exit codes: 0 clean scan, 1 confirmed
// findings, 2 configuration or runtime failure.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindingsPresent) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "npd-analysis",
		Output: os.Stderr,
		Level:  level,
	})
}
