// Package main is the entry point for the roommates CLI.
package main

import (
	"os"

	"roommates/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
