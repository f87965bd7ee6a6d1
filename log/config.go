package log

import (
	"io"
	"strings"
	"time"

	"github.com/ardnew/exlog/pkg"
)

// DefaultTraceLevel is the deepest nesting level at which trace lines are
// written when no other level is configured.
const DefaultTraceLevel = 5

// DefaultTimeLayout is the timestamp layout of every message and trace line.
const DefaultTimeLayout = "20060102 15:04:05"

// DefaultRootFrame names the outermost frame of a program. Leaving it
// without a matching enter is not reported.
const DefaultRootFrame = "main"

// DefaultPretty is the default setting for coloring line tags.
const DefaultPretty = false

// FormatTime defines a function that formats a time.Time value as a string.
type FormatTime func(time.Time) string

// config holds the configuration options for a Logger.
type config struct {
	output     *Sink
	errout     *Sink
	clock      Clock
	formatTime FormatTime
	filter     *Filter
	program    string
	rootFrame  string
	traceLevel int
	pretty     bool
}

// makeConfig creates a new config with defaults applied, overridden by any
// provided options.
func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone creates a copy of the config and applies any provided options.
func (c config) clone(opts ...Option) config {
	return apply(c, opts...)
}

// errorSink returns the configured error stream.
func (c config) errorSink() *Sink {
	if c.errout == nil {
		return Stderr
	}

	return c.errout
}

// now returns the current time of the configured clock.
func (c config) now() time.Time {
	if c.clock == nil {
		return time.Now()
	}

	return c.clock.Now()
}

// stamp formats t with the configured layout.
func (c config) stamp(t time.Time) string {
	if c.formatTime == nil {
		return t.Format(DefaultTimeLayout)
	}

	return c.formatTime(t)
}

// site fills in the program name of s.
func (c config) site(s Site) Site {
	if s.Program == "" {
		s.Program = c.program
	}

	if s.Function == "" {
		s.Function = rootFunction
	}

	return s
}

// WithDefaults returns a functional option that resets every setting to its
// default and directs output to w. A nil w leaves output unbound so that
// lines go to the process-wide primary sink.
func WithDefaults(w io.Writer) Option {
	return func(config) config {
		return config{
			output:     sinkFor(w),
			errout:     Stderr,
			clock:      SystemClock{},
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			program:    pkg.Program(),
			rootFrame:  DefaultRootFrame,
			traceLevel: DefaultTraceLevel,
			pretty:     DefaultPretty,
		}
	}
}

// WithOutput returns a functional option that binds the destination of
// messages and trace lines. A nil writer unbinds it, restoring the
// process-wide primary sink.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		c.output = sinkFor(w)

		return c
	}
}

// WithErrorOutput returns a functional option that sets the error stream,
// which receives copies of error and fatal messages, programmer-error lines
// and missing-sink warnings. A nil writer restores [Stderr].
func WithErrorOutput(w io.Writer) Option {
	return func(c config) config {
		c.errout = sinkFor(w)

		return c
	}
}

// WithClock returns a functional option that sets the time source.
func WithClock(clock Clock) Option {
	return func(c config) config {
		if clock == nil {
			clock = SystemClock{}
		}

		c.clock = clock

		return c
	}
}

// WithTraceLevel returns a functional option that sets the deepest nesting
// level at which trace lines are written. Deeper frames are still tracked.
func WithTraceLevel(level int) Option {
	return func(c config) config {
		c.traceLevel = level

		return c
	}
}

// WithProgram returns a functional option that sets the program name
// written in call sites and used for default log file names.
func WithProgram(name string) Option {
	return func(c config) config {
		if name = strings.TrimSpace(name); name != "" {
			c.program = name
		}

		return c
	}
}

// WithRootFrame returns a functional option that names the outermost frame,
// compared without regard to case.
func WithRootFrame(name string) Option {
	return func(c config) config {
		c.rootFrame = name

		return c
	}
}

// WithPretty returns a functional option that controls whether line tags are
// colored. Color is only emitted to sinks attached to a terminal.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// WithFilter returns a functional option that installs a trace filter.
// Frames the filter rejects are tracked but not written. A nil filter
// admits every frame.
func WithFilter(f *Filter) Option {
	return func(c config) config {
		c.filter = f

		return c
	}
}

// WithTimeLayout returns a functional option that sets the layout used to
// format timestamps.
//
// The layout string can be one of the named layouts from the [time] package
// (for example, "RFC3339" or "RFC3339Nano"). Otherwise, it is passed verbatim
// to [time.Time.Format] and must be written in terms of the reference time.
//
// An empty layout restores [DefaultTimeLayout].
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.formatTime = makeFormatTimeFunc(layout)

		return c
	}
}

// timeLayout maps named layouts to their corresponding time.Time constants.
var timeLayout = map[string]string{
	"default":     DefaultTimeLayout,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,

	"stamp": time.Stamp,

	"stampmilli": time.StampMilli,
	"milli":      time.StampMilli,
	"millis":     time.StampMilli,
	"ms":         time.StampMilli,

	"stampmicro": time.StampMicro,
	"micro":      time.StampMicro,
	"micros":     time.StampMicro,
	"us":         time.StampMicro,
}

func makeFormatTimeFunc(layout string) FormatTime {
	// Trim whitespace only for inspection.
	// Custom layouts are used verbatim.
	trimmed := strings.Map(
		func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if trimmed == "" {
		layout = DefaultTimeLayout
	} else if std, ok := timeLayout[trimmed]; ok {
		layout = std
	}

	return func(t time.Time) string { return t.Format(layout) }
}
