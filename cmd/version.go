package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version of the scanner",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("npd-analysis %s (built %s, %s)\n", Version, BuildTime, runtime.Version())
		},
	}
}
