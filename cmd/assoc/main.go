// Package main provides the entry point for the assoc CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/assoc/cmd/assoc/commands"
	"github.com/Sumatoshi-tech/assoc/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
