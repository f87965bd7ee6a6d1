// Package log provides call-stack-aware execution logging.
//
// Every line written by the package is tagged with a searchable prefix so a
// log can be sliced with grep:
//
//	(F) fatal error      (E) error      (W) warning
//	(N) note             (T) trace      (P) programmer error
//
// # Messages
//
// Messages carry a timestamp, the call site, a severity phrase and the
// caller's text. They are indented to the current trace depth:
//
//	(E) 20121115 15:04:05 - : exlog::generateNextRow:(42) error - lost row
//
// Additional lines can be attached to a previous message with
// [Logger.Addendum]; these omit the timestamp, call site and severity:
//
//	(E) . . . . . . . . . . : check the input file
//
// Error and fatal messages are always duplicated to the error stream so they
// stay visible when the primary sink is a file.
//
// # Tracing
//
// [Logger.Enter] and [Logger.Leave] bracket a function or block of code.
// Each Enter pushes a frame onto the logger's [State]; each Leave pops it and
// reports the seconds spent in the frame and its children:
//
//	(T) 20121115 15:04:05 - enter main
//	(T) 20121115 15:04:05 - : enter display_row(3)
//	(T) 20121115 15:04:05 - : leave display_row (0.0001 seconds)
//	(T) 20121115 15:04:05 - leave main (0.0012 seconds)
//
// A Leave whose frame does not match the frame on top of the stack, or a
// Leave without a matching Enter, is reported as an error and repaired in
// place. Neither condition interrupts the caller.
//
// Frames deeper than the trace level ([WithTraceLevel], default
// [DefaultTraceLevel]) are tracked but not written.
//
// # Sinks
//
// Output goes to the first available of: the sink bound with [Logger.To] or
// [WithOutput], the process-wide primary sink installed by [Open], or the
// error stream (after a one-line warning).
//
// # Concurrency
//
// A [State] belongs to one logical call stack. Use [Logger.Fork] to give each
// goroutine its own State; sinks serialize their writes so lines from
// different goroutines never interleave.
package log
