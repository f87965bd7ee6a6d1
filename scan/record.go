package scan

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/exlog/log"
	"github.com/ardnew/exlog/pkg"
)

// Kind distinguishes the layouts a log line can take.
type Kind string

const (
	KindMessage  Kind = "message"
	KindAddendum Kind = "addendum"
	KindEnter    Kind = "enter"
	KindLeave    Kind = "leave"
)

// Record is one parsed log line. Source and Number locate the line in its
// input when it was produced by [Read].
type Record struct {
	Tag      log.Tag   `json:"tag"                yaml:"tag"                msgpack:"tag"`
	Kind     Kind      `json:"kind"               yaml:"kind"               msgpack:"kind"`
	Stamp    string    `json:"stamp,omitempty"    yaml:"stamp,omitempty"    msgpack:"stamp,omitempty"`
	Time     time.Time `json:"time,omitzero"      yaml:"time,omitempty"     msgpack:"time,omitempty"`
	Depth    int       `json:"depth"              yaml:"depth"              msgpack:"depth"`
	Program  string    `json:"program,omitempty"  yaml:"program,omitempty"  msgpack:"program,omitempty"`
	Function string    `json:"function,omitempty" yaml:"function,omitempty" msgpack:"function,omitempty"`
	Line     int       `json:"line,omitempty"     yaml:"line,omitempty"     msgpack:"line,omitempty"`
	Frame    string    `json:"frame,omitempty"    yaml:"frame,omitempty"    msgpack:"frame,omitempty"`
	Args     string    `json:"args,omitempty"     yaml:"args,omitempty"     msgpack:"args,omitempty"`
	Seconds  float64   `json:"seconds,omitempty"  yaml:"seconds,omitempty"  msgpack:"seconds,omitempty"`
	Text     string    `json:"text,omitempty"     yaml:"text,omitempty"     msgpack:"text,omitempty"`
	Source   string    `json:"source,omitempty"   yaml:"source,omitempty"   msgpack:"source,omitempty"`
	Number   int       `json:"number"             yaml:"number"             msgpack:"number"`
}

const (
	indentUnit     = ": "
	addendumMarker = " . . . . . . . . . . "
	stampSep       = " - "
)

var (
	siteExpr  = regexp.MustCompile(`^(\S+)::(.+?):\((\d+)\) (.*)$`)
	leaveExpr = regexp.MustCompile(`^leave (.*) \(([0-9.]+) seconds\)$`)
)

// Parse decodes one line written by the log package. Timestamps are parsed
// with [log.DefaultTimeLayout] in the local time zone; lines written with
// another layout keep their Stamp but have a zero Time.
//
// The error wraps [pkg.ErrParseLine].
func Parse(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")

	if len(line) < 4 || line[0] != '(' || line[2] != ')' {
		return Record{}, pkg.ErrParseLine.Wrapf("%q", line)
	}

	tag, ok := log.ParseTag(line[:3])
	if !ok || string(tag) != line[:3] {
		return Record{}, pkg.ErrParseLine.Wrapf("unknown tag %q", line[:3])
	}

	rec := Record{Tag: tag}

	if rest, ok := strings.CutPrefix(line[3:], addendumMarker); ok {
		rec.Kind = KindAddendum
		rec.Depth, rec.Text = depthOf(rest)

		return rec, nil
	}

	if line[3] != ' ' {
		return Record{}, pkg.ErrParseLine.Wrapf("%q", line)
	}

	stamp, body, ok := strings.Cut(line[4:], stampSep)
	if !ok {
		return Record{}, pkg.ErrParseLine.Wrapf("missing timestamp in %q", line)
	}

	rec.Stamp = stamp

	if t, err := time.ParseInLocation(log.DefaultTimeLayout, stamp, time.Local); err == nil {
		rec.Time = t
	}

	rec.Depth, body = depthOf(body)

	if tag == log.TagTrace {
		return parseTrace(rec, body)
	}

	return parseMessage(rec, body)
}

func parseTrace(rec Record, body string) (Record, error) {
	if m := leaveExpr.FindStringSubmatch(body); m != nil {
		secs, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Record{}, pkg.ErrParseLine.Wrap(err)
		}

		rec.Kind = KindLeave
		rec.Frame = m[1]
		rec.Seconds = secs

		return rec, nil
	}

	frame, ok := strings.CutPrefix(body, "enter ")
	if !ok {
		return Record{}, pkg.ErrParseLine.Wrapf("unknown trace transition in %q", body)
	}

	rec.Kind = KindEnter
	rec.Frame = frame

	if name, args, ok := strings.Cut(frame, "("); ok && strings.HasSuffix(args, ")") {
		rec.Frame = name
		rec.Args = strings.TrimSuffix(args, ")")
	}

	return rec, nil
}

func parseMessage(rec Record, body string) (Record, error) {
	m := siteExpr.FindStringSubmatch(body)
	if m == nil {
		return Record{}, pkg.ErrParseLine.Wrapf("missing call site in %q", body)
	}

	line, err := strconv.Atoi(m[3])
	if err != nil {
		return Record{}, pkg.ErrParseLine.Wrap(err)
	}

	rec.Kind = KindMessage
	rec.Program = m[1]
	rec.Function = m[2]
	rec.Line = line
	rec.Text = m[4]

	if p := phraseOf(rec.Tag); p != "" {
		rec.Text = strings.TrimPrefix(rec.Text, p)
	}

	return rec, nil
}

// depthOf counts the indentation units at the start of s and returns the
// nesting depth and the remaining text.
func depthOf(s string) (int, string) {
	depth := 0

	for {
		rest, ok := strings.CutPrefix(s, indentUnit)
		if !ok {
			return depth, s
		}

		depth++
		s = rest
	}
}

// String reassembles the line rec was parsed from, without styling.
func (rec Record) String() string {
	ln := log.Line{
		Tag:      rec.Tag,
		Time:     rec.Stamp,
		Indent:   log.Indent(rec.Depth),
		Addendum: rec.Kind == KindAddendum,
	}

	switch rec.Kind {
	case KindEnter:
		ln.Text = "enter " + rec.Frame
		if rec.Args != "" {
			ln.Text += "(" + rec.Args + ")"
		}

	case KindLeave:
		ln.Text = "leave " + rec.Frame + " (" +
			strconv.FormatFloat(rec.Seconds, 'f', -1, 64) + " seconds)"

	case KindMessage:
		ln.Site = log.Site{Program: rec.Program, Function: rec.Function, Line: rec.Line}
		ln.Phrase = phraseOf(rec.Tag)
		ln.Text = rec.Text

	default:
		ln.Text = rec.Text
	}

	return ln.String()
}

func phraseOf(tag log.Tag) string {
	switch tag {
	case log.TagFatal:
		return log.SeverityFatal.Phrase()
	case log.TagError:
		return log.SeverityError.Phrase()
	case log.TagWarning:
		return log.SeverityWarning.Phrase()
	case log.TagUsage:
		return "programmer error - "
	default:
		return ""
	}
}
