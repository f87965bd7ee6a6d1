package cmd

import (
	"log/slog"
	"strings"
)

// Error is a command failure. It names the failed step, optionally wraps
// the cause, and carries attributes (files, paths, formats) that are logged
// with it when main reports the failure through slog.
type Error struct {
	step  string
	cause error
	attrs []slog.Attr
}

// NewError returns an Error for the named step.
func NewError(step string) *Error { return &Error{step: step} }

// Error returns "<step>: <cause>", omitting whichever part is empty.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.step)

	if e.cause != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// LogValue groups the step, the cause and the attributes so that the
// execution log shows them on one error line.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.step != "" {
		attrs = append(attrs, slog.String("step", e.step))
	}

	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.cause = err

	return &c
}

// With returns a copy of e with attrs appended. The sentinels below are
// shared, so e itself is never modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

// Command failures.
var (
	ErrJSONMarshal    = NewError("encode scan output as JSON")
	ErrYAMLMarshal    = NewError("encode YAML")
	ErrMsgpackMarshal = NewError("encode scan output as MessagePack")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrScanLog        = NewError("scan execution log")
	ErrNoSource       = NewError("no execution log given")
	ErrDemo           = NewError("pascal demo")
)
