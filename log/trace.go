package log

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ardnew/exlog/pkg"
)

// Enter opens a traced frame named frame. If args are given, their default
// formats are listed after the frame name.
//
// Frames nested deeper than the trace level are tracked but not written.
func (l Logger) Enter(frame string, args ...any) {
	if l.state == nil {
		return
	}

	l.enter(l.sink(), frame, args)
}

// Leave closes the traced frame named frame and writes the seconds spent in
// it.
//
// If frame is not the frame on top of the stack, two error lines describe
// the mismatch; the frame on top is closed regardless. If no frame is open,
// an error is reported and the depth is clamped to 0, unless frame is the
// root frame (see [WithRootFrame]).
func (l Logger) Leave(frame string) {
	if l.state == nil {
		return
	}

	l.leave(l.sink(), Caller(1), frame)
}

// Trace is the combined form of [Logger.Enter] and [Logger.Leave]. The
// transition is matched by its first letter, ignoring case; args are only
// used when entering.
//
// An unknown transition is a defect in the calling code: a programmer-error
// line is written to the error stream and an error wrapping
// [pkg.ErrInvalidTransition] is returned.
func (l Logger) Trace(transition, frame string, args ...any) error {
	return l.TraceAt(Caller(1), transition, frame, args...)
}

// TraceAt is [Logger.Trace] with an explicit call site. The site is only
// used in diagnostics about the call itself.
func (l Logger) TraceAt(site Site, transition, frame string, args ...any) error {
	if l.state == nil {
		return nil
	}

	t, err := ParseTransition(transition)
	if err != nil {
		l.usage(site, fmt.Sprintf("what does transition '%s' mean?", transition))

		return err
	}

	switch t {
	case TransitionEnter:
		l.enter(l.sink(), frame, args)
	case TransitionLeave:
		l.leave(l.sink(), site, frame)
	}

	return nil
}

func (l Logger) enter(dst *Sink, frame string, args []any) {
	now := l.now()
	depth := l.state.push(frame, now)

	if !l.traced(depth, frame) {
		return
	}

	l.write(dst, Line{
		Tag:    TagTrace,
		Time:   l.stamp(now),
		Indent: Indent(depth),
		Text:   "enter " + frame + formatArgs(args),
	})
}

func (l Logger) leave(dst *Sink, site Site, frame string) {
	depth := l.state.Depth()

	if depth >= 0 && depth <= l.traceLevel {
		top, entered := l.state.top()

		if top.name != frame {
			l.emit(dst, site, SeverityError,
				fmt.Sprintf("arg f '%s' does not match stack f '%s'", frame, top.name), false)
			l.emit(dst, site, SeverityError,
				fmt.Sprintf("check leave calls in '%s'", top.name), true)
		}

		now := l.now()

		var elapsed time.Duration
		if entered {
			elapsed = max(now.Sub(top.entered), 0)
		}

		if l.traced(depth, frame) {
			l.write(dst, Line{
				Tag:    TagTrace,
				Time:   l.stamp(now),
				Indent: Indent(depth),
				Text: "leave " + frame +
					" (" + FormatSeconds(elapsed) + " seconds)",
			})
		}
	}

	if l.state.pop(frame, l.rootFrame) {
		l.emit(dst, site, SeverityError,
			fmt.Sprintf("the call Trace(%s, leave, %s) made the nesting level negative",
				dst, frame), false)
	}
}

// traced reports whether a trace line for frame at depth is written.
func (l Logger) traced(depth int, frame string) bool {
	return depth <= l.traceLevel && l.filter.Admit(depth, frame)
}

// formatArgs lists args in parentheses, or returns "" if there are none.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	return "(" + pkg.Render[any](pkg.Sprint[any]).Join(", ", args...) + ")"
}

// FormatSeconds renders d in seconds rounded to four decimal places, with
// trailing zeros removed.
func FormatSeconds(d time.Duration) string {
	secs := math.Round(d.Seconds()*1e4) / 1e4

	return strconv.FormatFloat(secs, 'f', -1, 64)
}
