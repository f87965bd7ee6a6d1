// Package profile provides optional runtime profiling for exlog.
//
// Profiling wraps [github.com/pkg/profile] and must be enabled at build time
// with the "pprof" build tag. Without it, [Profiler.Start] is a no-op and
// [Modes] is empty.
//
//	p := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	)
//	defer p.Start().Stop()
//
// Profile files are written to the given directory with names matching the
// profiling mode (e.g., cpu.pprof, mem.pprof). Analyze them with
// go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The exlog command exposes the same settings as --pprof-mode and
// --pprof-dir when built with the tag:
//
//	go build -tags pprof -o exlog .
//	./exlog --pprof-mode=cpu pascal --rows 10
//
// Execution traces written by package log measure wall time per traced
// frame; a CPU profile shows where that time is spent inside a frame.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
