package main

import (
	"os"

	"github.com/hyperengineering/mealie-mcp"
)

func main() {
	mealie.Version = version

	// Initialize styled help after all commands are registered
	initHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// Print styled error with token scrubbing
		outputError(os.Stderr, err)
		os.Exit(1)
	}
}
