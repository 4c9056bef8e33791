// Package cli provides common CLI utilities shared by stem player
// command-line tools.
//
// This package includes:
//   - Configuration management (contexts, profiles)
//   - Output formatting (JSON, YAML, raw)
//   - Request file loading (YAML/JSON)
//   - Common flags and options
//
// Configuration is stored in ~/.stemengine/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	// Initialize config for your app
//	cfg, err := cli.LoadConfig("stemplayer")
//
//	// Get current context
//	ctx, err := cfg.GetCurrentContext()
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
