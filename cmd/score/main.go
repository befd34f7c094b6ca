package main

import (
	"os"

	"github.com/investorcenter/score-engine/cmd/score/commands"
)

// main is the entry point for the score engine CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
