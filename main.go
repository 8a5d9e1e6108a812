package main

import (
	"os"

	"github.com/hannajonsd/npd-analysis/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
