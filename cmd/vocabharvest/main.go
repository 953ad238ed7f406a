// Package main is the entry point for the vocabharvest CLI.
package main

import (
	"os"

	"github.com/jmylchreest/vocabharvest/cmd/vocabharvest/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
