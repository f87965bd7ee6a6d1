package log

import (
	"fmt"
	"io"

	"github.com/ardnew/exlog/pkg"
)

// missingSinkWarning is written to the error stream when a line has no
// destination other than the error stream itself.
const missingSinkWarning = "warning - log file not opened - directing to STDERR"

// Logger writes messages and trace lines.
//
// A Logger is a small value. Copies made with [Logger.Wrap] and [Logger.To]
// share the original's [State]; [Logger.Fork] starts a new one. The zero
// Logger discards everything.
type Logger struct {
	config

	state *State
}

// Make creates a new [Logger] writing to w with a fresh [State].
// A nil w leaves the destination unbound, so output goes to the process-wide
// primary sink (see [Open]).
//
// Optional configuration can be applied using functional options like
// [WithErrorOutput], [WithTraceLevel], [WithClock] and [WithPretty].
func Make(w io.Writer, opts ...Option) Logger {
	return Logger{
		config: makeConfig(w, opts...),
		state:  NewState(),
	}
}

// Wrap returns a copy of l with the given options applied on top of its
// current configuration. The copy shares l's [State].
func (l Logger) Wrap(opts ...Option) Logger {
	l.config = l.clone(opts...)

	return l
}

// To returns a copy of l that writes to s, sharing l's [State].
// A nil s restores the fallback to the process-wide primary sink.
func (l Logger) To(s *Sink) Logger {
	l.output = s

	return l
}

// Fork returns a copy of l with its own empty [State]. Each goroutine that
// traces independently of its parent should log through its own fork.
func (l Logger) Fork() Logger {
	l.state = NewState()

	return l
}

// State returns the nesting stack shared by l and its copies.
func (l Logger) State() *State { return l.state }

// TraceLevel returns the deepest nesting level at which trace lines are
// written.
func (l Logger) TraceLevel() int { return l.traceLevel }

// Sink returns the destination of l's next line without reporting a missing
// sink. It is nil when neither a bound nor a primary sink exists.
func (l Logger) Sink() *Sink {
	if l.output != nil {
		return l.output
	}

	return Primary()
}

// sink resolves the destination of a line. When there is none, a warning is
// written to the error stream, which then serves as the destination.
func (l Logger) sink() *Sink {
	if s := l.Sink(); s != nil {
		return s
	}

	errs := l.errorSink()
	_, _ = io.WriteString(errs, missingSinkWarning+"\n")

	return errs
}

// Note logs text at note severity.
func (l Logger) Note(text string) { l.message(Caller(1), SeverityNote, text, false) }

// Warning logs text at warning severity.
func (l Logger) Warning(text string) { l.message(Caller(1), SeverityWarning, text, false) }

// Error logs text at error severity. The line is copied to the error stream.
func (l Logger) Error(text string) { l.message(Caller(1), SeverityError, text, false) }

// Fatal logs text at fatal severity. The line is copied to the error stream.
// Fatal does not stop the program; the caller decides how to exit.
func (l Logger) Fatal(text string) { l.message(Caller(1), SeverityFatal, text, false) }

// Notef logs a formatted message at note severity.
func (l Logger) Notef(format string, args ...any) {
	l.message(Caller(1), SeverityNote, fmt.Sprintf(format, args...), false)
}

// Errorf logs a formatted message at error severity.
func (l Logger) Errorf(format string, args ...any) {
	l.message(Caller(1), SeverityError, fmt.Sprintf(format, args...), false)
}

// Message logs text with the severity named by the first letter of
// severity (see [ParseSeverity]), attributed to the caller.
//
// An unknown severity is a defect in the calling code: a programmer-error
// line is written to the error stream and an error wrapping
// [pkg.ErrInvalidSeverity] is returned.
func (l Logger) Message(severity, text string) error {
	return l.MessageAt(Caller(1), severity, text, false)
}

// Addendum continues the previous message with another line of text. The
// line omits the timestamp, call site and severity phrase.
func (l Logger) Addendum(severity, text string) error {
	return l.MessageAt(Caller(1), severity, text, true)
}

// MessageAt is [Logger.Message] with an explicit call site, for callers that
// capture the site themselves. If addendum is true the continuation form of
// [Logger.Addendum] is written.
func (l Logger) MessageAt(site Site, severity, text string, addendum bool) error {
	if l.state == nil {
		return nil
	}

	sev, err := ParseSeverity(severity)
	if err != nil {
		l.usage(site, fmt.Sprintf("what does severity '%s' mean?", severity))

		return err
	}

	l.message(site, sev, text, addendum)

	return nil
}

func (l Logger) message(site Site, sev Severity, text string, addendum bool) {
	if l.state == nil {
		return
	}

	l.emit(l.sink(), site, sev, text, addendum)
}

// emit writes a message line to dst and, for errors and worse, a copy to the
// error stream.
func (l Logger) emit(dst *Sink, site Site, sev Severity, text string, addendum bool) {
	ln := Line{
		Tag:      sev.Tag(),
		Indent:   l.state.indent(),
		Text:     text,
		Addendum: addendum,
	}

	if !addendum {
		ln.Time = l.stamp(l.now())
		ln.Site = l.site(site)
		ln.Phrase = sev.Phrase()
	}

	l.write(dst, ln)

	if sev.mirrored() {
		l.write(l.errorSink(), ln)
	}
}

// usage writes a programmer-error line to the error stream.
func (l Logger) usage(site Site, text string) {
	l.write(l.errorSink(), Line{
		Tag:    TagUsage,
		Time:   l.stamp(l.now()),
		Site:   l.site(site),
		Phrase: "programmer error - ",
		Text:   text,
	})
}

// write writes ln to dst. A failed write is reported on the error stream
// unless dst is the error stream.
func (l Logger) write(dst *Sink, ln Line) {
	err := dst.writeLine(ln, l.pretty)
	if err == nil {
		return
	}

	if errs := l.errorSink(); dst != errs {
		_, _ = fmt.Fprintf(errs, "warning - write to %s failed: %v\n", dst, err)
	}
}

// DefaultLogName returns the file name used by [Logger.Open] when no path is
// given: the program name without extension, an underscore, the date of the
// logger's clock as YYYYMMDD and ".log".
func (l Logger) DefaultLogName() string {
	return pkg.TrimExt(l.program) + "_" + l.now().Format("20060102") + ".log"
}

// Open creates or truncates the log file at path and installs it as the
// process-wide primary sink. An empty path selects [Logger.DefaultLogName].
// Open returns the resolved path.
//
// If the file cannot be opened, one fatal line is written to the error
// stream, the primary sink is left unchanged, and an error wrapping
// [pkg.ErrOpenLog] is returned. The caller should stop: nothing it logs
// afterwards will reach a file.
func (l Logger) Open(path string) (string, error) {
	return l.open(Caller(1), path)
}

func (l Logger) open(site Site, path string) (string, error) {
	if path == "" {
		path = l.DefaultLogName()
	}

	s, err := OpenSink(path)
	if err != nil {
		l.write(l.errorSink(), Line{
			Tag:    TagFatal,
			Time:   l.stamp(l.now()),
			Site:   l.site(site),
			Phrase: SeverityFatal.Phrase(),
			Text:   fmt.Sprintf("could not open log file '%s' for output", path),
		})

		return path, err
	}

	if prev := Install(s); prev != nil && prev != s {
		_ = prev.Close()
	}

	return path, nil
}

// Close releases the process-wide primary sink and uninstalls it. A primary
// sink aliasing the standard error stream is uninstalled but not closed.
func (l Logger) Close() error {
	return Install(nil).Close()
}
