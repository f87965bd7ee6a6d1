package log

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// indentUnit is written once per nesting level.
const indentUnit = ": "

// addendumMarker replaces the timestamp, call site and severity of a line
// that continues a previous message.
const addendumMarker = " . . . . . . . . . . "

// Line is one record written to a [Sink].
//
// A message line carries every field. A trace line has no Site and no
// Phrase. An addendum line carries only Tag, Indent and Text.
type Line struct {
	Tag      Tag
	Time     string
	Indent   string
	Site     Site
	Phrase   string
	Text     string
	Addendum bool
}

// Indent returns the indentation string for the given nesting depth.
// Negative depths are not indented.
func Indent(depth int) string {
	return strings.Repeat(indentUnit, max(depth, 0))
}

// String formats ln without styling or a trailing newline.
func (ln Line) String() string {
	return ln.format(string(ln.Tag))
}

func (ln Line) format(tag string) string {
	var sb strings.Builder

	sb.WriteString(tag)

	if ln.Addendum {
		sb.WriteString(addendumMarker)
		sb.WriteString(ln.Indent)
		sb.WriteString(ln.Text)

		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(ln.Time)
	sb.WriteString(" - ")
	sb.WriteString(ln.Indent)

	if !ln.Site.IsZero() {
		sb.WriteString(ln.Site.String())
		sb.WriteByte(' ')
		sb.WriteString(ln.Phrase)
	}

	sb.WriteString(ln.Text)

	return sb.String()
}

// tagColor maps each tag to an ANSI palette index.
var tagColor = map[Tag]lipgloss.Color{
	TagFatal:   lipgloss.Color("9"),
	TagError:   lipgloss.Color("1"),
	TagWarning: lipgloss.Color("3"),
	TagNote:    lipgloss.Color("2"),
	TagTrace:   lipgloss.Color("6"),
	TagUsage:   lipgloss.Color("5"),
}

// styled formats ln with its tag colored by r. The renderer decides whether
// the destination supports color at all.
func (ln Line) styled(r *lipgloss.Renderer) string {
	style := r.NewStyle().Foreground(tagColor[ln.Tag])
	if ln.Tag == TagFatal || ln.Tag == TagUsage {
		style = style.Bold(true)
	}

	return ln.format(style.Render(string(ln.Tag)))
}
