// Package cmd implements the exlog subcommands: the traced Pascal's triangle
// demo, log scanning and profiling, the interactive call-tree viewer and
// configuration file initialization.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by the init command.
	ConfigIdentifier = "config"
)
