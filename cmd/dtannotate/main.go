// Package main provides the entry point for the dtannotate CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/dtannotate/cmd/dtannotate/commands"
	"github.com/Sumatoshi-tech/dtannotate/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
