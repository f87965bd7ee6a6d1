package log

import (
	"context"
	"log/slog"
	"strings"
)

// LevelFatal is the [slog.Level] logged as a fatal message by
// [Logger.Handler].
const LevelFatal = slog.LevelError + 4

// severityOf maps a slog level onto the nearest severity.
func severityOf(level slog.Level) Severity {
	switch {
	case level >= LevelFatal:
		return SeverityFatal
	case level >= slog.LevelError:
		return SeverityError
	case level >= slog.LevelWarn:
		return SeverityWarning
	default:
		return SeverityNote
	}
}

// handler implements [slog.Handler] on top of a Logger.
type handler struct {
	logger Logger
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// Handler returns a [slog.Handler] that writes records as messages of l,
// indented to l's current trace depth. Records below level are discarded;
// a nil level admits everything from [slog.LevelDebug] up.
//
// Attributes are appended to the message text as key=value pairs.
func (l Logger) Handler(level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelDebug
	}

	return &handler{logger: l, level: level}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.state != nil && level >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Message)

	// Attributes added with WithAttrs already carry their group prefix.
	for _, a := range h.attrs {
		h.writeAttr(&sb, nil, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.groups, a)

		return true
	})

	h.logger.message(siteOf(r.PC), severityOf(r.Level), sb.String(), false)

	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		if len(h.groups) > 0 {
			a.Key = strings.Join(h.groups, ".") + "." + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// writeAttr appends " key=value" to sb, flattening groups into dotted keys.
func (h *handler) writeAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(sb, groups, ga)
		}

		return
	}

	sb.WriteByte(' ')

	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteByte('.')
	}

	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}
