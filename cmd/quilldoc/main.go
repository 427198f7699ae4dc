package main

import (
	"log"
	"os"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Log to stderr; stdout carries command output (and the MCP protocol
	// when serving).
	log.SetOutput(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
