package log

//go:generate go tool stringer --linecomment --type Severity,Transition --output severity_string.go

import (
	"iter"
	"strings"

	"github.com/ardnew/exlog/pkg"
)

// Tag is the searchable prefix at the start of every log line.
type Tag string

const (
	TagFatal   Tag = "(F)"
	TagError   Tag = "(E)"
	TagWarning Tag = "(W)"
	TagNote    Tag = "(N)"
	TagTrace   Tag = "(T)"
	TagUsage   Tag = "(P)"
)

// Tags returns an iterator over all line tags in the order they are
// documented.
func Tags() iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for _, tag := range []Tag{
			TagFatal, TagError, TagWarning, TagNote, TagTrace, TagUsage,
		} {
			if !yield(tag) {
				return
			}
		}
	}
}

// ParseTag returns the tag whose letter matches the first letter of s,
// ignoring case and an optional surrounding pair of parentheses.
func ParseTag(s string) (Tag, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "(")
	if s == "" {
		return "", false
	}

	want := "(" + strings.ToUpper(s[:1]) + ")"

	for tag := range Tags() {
		if string(tag) == want {
			return tag, true
		}
	}

	return "", false
}

// Severity classifies a message.
type Severity int

const (
	SeverityNote    Severity = iota // note
	SeverityWarning                 // warning
	SeverityError                   // error
	SeverityFatal                   // fatal
)

// ParseSeverity classifies s by its first letter, ignoring case:
// F is fatal, E is error, W is warning and N is note.
// Any other input returns an error wrapping [pkg.ErrInvalidSeverity].
func ParseSeverity(s string) (Severity, error) {
	if s != "" {
		switch strings.ToUpper(s[:1]) {
		case "F":
			return SeverityFatal, nil
		case "E":
			return SeverityError, nil
		case "W":
			return SeverityWarning, nil
		case "N":
			return SeverityNote, nil
		}
	}

	return SeverityNote, pkg.ErrInvalidSeverity.Wrapf("%q", s)
}

// Tag returns the line prefix for messages of severity s.
func (s Severity) Tag() Tag {
	switch s {
	case SeverityFatal:
		return TagFatal
	case SeverityError:
		return TagError
	case SeverityWarning:
		return TagWarning
	default:
		return TagNote
	}
}

// Phrase returns the text written between the call site and the message.
func (s Severity) Phrase() string {
	switch s {
	case SeverityFatal:
		return "fatal error - "
	case SeverityError:
		return "error - "
	case SeverityWarning:
		return "warning - "
	default:
		return ""
	}
}

// mirrored reports whether messages of severity s are copied to the error
// stream.
func (s Severity) mirrored() bool { return s >= SeverityError }

// Transition is the direction of a trace call.
type Transition int

const (
	TransitionEnter Transition = iota // enter
	TransitionLeave                   // leave
)

// ParseTransition matches s by its first letter, ignoring case.
// Any input other than enter or leave returns an error wrapping
// [pkg.ErrInvalidTransition].
func ParseTransition(s string) (Transition, error) {
	if s != "" {
		switch strings.ToUpper(s[:1]) {
		case "E":
			return TransitionEnter, nil
		case "L":
			return TransitionLeave, nil
		}
	}

	return TransitionEnter, pkg.ErrInvalidTransition.Wrapf("%q", s)
}
