// Package cli contains the command line interface for exlog.
//
// # Usage
//
// Running exlog without a command runs the traced Pascal's triangle demo:
//
//	exlog --trace-level=3 pascal --rows 6
//	exlog scan --tag T --profile exlog_20121115.log
//	exlog view exlog_20121115.log.zst
//
// # Configuration Loaders
//
// Flag values are read from each of these files that exists in the user
// configuration directory (e.g. ~/.config/exlog):
//
//   - config.json: decoded by [kong.JSON]
//   - config.yaml: decoded by [loadYAML]
//   - config.toml: decoded by [loadTOML]
//
// Keys are flag names. Underscores may be used in place of hyphens, and
// nested mappings are flattened by joining keys with hyphens, so "trace_level"
// and "trace: {level: 3}" both set --trace-level. The init command writes the
// current flag values as config.yaml. Command-line flags override config file
// values.
//
// # Logging Options
//
//   - --log-file: Execution log path (default <program>_<YYYYMMDD>.log)
//   - --log-time: Timestamp layout (default, RFC3339, Kitchen, ...)
//   - --[no-]log-pretty: Colorize line tags on terminals
//
// # Tracing Options
//
//   - --trace-level: Deepest nesting level at which trace lines are written
//     (default 5; the pascal demo uses 15 unless one is given)
//   - --trace-filter: Expression over frame and depth selecting traced frames
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o exlog .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/exlog/pprof)
//
// # Examples
//
//	# Trace only the recursion of the demo
//	exlog --trace-filter 'frame startsWith "generate"' pascal -n 8
//
//	# Export the per-frame profile as YAML
//	exlog scan --profile -o yaml exlog_20121115.log
//
//	# CPU profile of the demo
//	exlog --pprof-mode=cpu pascal -n 10
package cli
