package main

import (
	"os"

	"github.com/cohortlab/retain/cmd/retain/commands"
)

// main is the entry point for the retain CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
