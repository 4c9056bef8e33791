// Package main is the entry point for the stemplayer CLI.
//
// Usage:
//
//	stemplayer [flags] <command> [args]
//
// Commands:
//
//	songs     - List songs and stems discovered under a catalog directory
//	devices   - List available audio output devices
//	play      - Play a song and run the live terminal dashboard
//	preload   - Warm the song cache for an entire setlist
//	config    - View or persist default settings
package main

import (
	"fmt"
	"os"

	"github.com/gigstage/stemengine/cmd/stemplayer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
