package view

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/exlog/log"
	"github.com/ardnew/exlog/scan"
)

const (
	filterPrompt  = "/ "
	defaultWidth  = 80
	defaultHeight = 24

	// chromeHeight is the number of lines used by the filter and status
	// lines.
	chromeHeight = 2
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	indentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	frameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	argsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	secondsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	tagStyle = map[log.Tag]lipgloss.Style{
		log.TagFatal:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		log.TagError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		log.TagWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		log.TagNote:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		log.TagUsage:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
)

// model is the Bubble Tea model of the call tree viewer.
type model struct {
	ctxFunc  func() context.Context
	roots    []*scan.Node
	names    []string        // distinct frame names
	matched  map[string]bool // frames matching the filter; nil when unfiltered
	input    textinput.Model
	viewport viewport.Model
	messages bool // whether messages are listed under their frame
	quitting bool
}

// Run browses the call tree described by records until the user quits.
func Run(ctx context.Context, records []scan.Record) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(records) == 0 {
		return ErrNoRecords
	}

	m := newModel(ctx, records)

	slog.DebugContext(ctx, "view start",
		slog.Int("records", len(records)),
		slog.Int("frames", len(m.names)),
	)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()

	return err
}

func newModel(ctx context.Context, records []scan.Record) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(filterPrompt)
	ti.Placeholder = "fuzzy frame filter"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(filterPrompt) - 1

	m := model{
		ctxFunc:  func() context.Context { return ctx },
		roots:    scan.Tree(records),
		names:    scan.Names(records),
		input:    ti,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
	}

	m.refresh()

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-len(filterPrompt)-1, 1)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyTab:
		m.messages = !m.messages
		m.refresh()

		return m, nil

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	prev := m.input.Value()

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != prev {
		m.refresh()
		m.viewport.GotoTop()

		slog.DebugContext(m.ctxFunc(), "view filter",
			slog.String("pattern", m.input.Value()),
			slog.Int("matched", len(m.matched)),
		)
	}

	return m, cmd
}

// refresh recomputes the filter matches and re-renders the tree into the
// viewport.
func (m *model) refresh() {
	m.matched = nil

	if pattern := strings.TrimSpace(m.input.Value()); pattern != "" {
		m.matched = map[string]bool{}
		for _, name := range scan.Match(pattern, m.names) {
			m.matched[name] = true
		}
	}

	m.viewport.SetContent(m.render())
}

// render returns the visible lines of the tree. When filtering, a node is
// shown if it or one of its descendants matches.
func (m model) render() string {
	var b strings.Builder

	for _, root := range m.roots {
		m.renderNode(&b, root)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) renderNode(b *strings.Builder, n *scan.Node) {
	if !m.visible(n) {
		return
	}

	b.WriteString(m.nodeLine(n))
	b.WriteString("\n")

	if m.messages {
		for _, rec := range n.Messages {
			b.WriteString(messageLine(rec))
			b.WriteString("\n")
		}
	}

	for _, c := range n.Children {
		m.renderNode(b, c)
	}
}

func (m model) visible(n *scan.Node) bool {
	if m.matched == nil {
		return true
	}

	for d := range n.Walk() {
		if m.matched[d.Frame] {
			return true
		}
	}

	return false
}

func (m model) nodeLine(n *scan.Node) string {
	style := frameStyle
	if m.matched[n.Frame] {
		style = matchStyle
	}

	line := indentStyle.Render(log.Indent(n.Depth)) + style.Render(n.Frame)

	if n.Args != "" {
		line += argsStyle.Render("(" + n.Args + ")")
	}

	if !n.Closed {
		return line + " " + openStyle.Render("open")
	}

	return line + " " + secondsStyle.Render(strconv.FormatFloat(n.Seconds, 'f', -1, 64)+"s")
}

func messageLine(rec scan.Record) string {
	style, ok := tagStyle[rec.Tag]
	if !ok {
		style = statusStyle
	}

	return indentStyle.Render(log.Indent(rec.Depth)) +
		style.Render(string(rec.Tag)) + " " + rec.Text
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status()))

	return b.String()
}

func (m model) status() string {
	frames := len(m.names)

	shown := fmt.Sprintf("%d frames", frames)
	if m.matched != nil {
		shown = fmt.Sprintf("%d/%d frames", len(m.matched), frames)
	}

	mode := "tab: show messages"
	if m.messages {
		mode = "tab: hide messages"
	}

	return fmt.Sprintf("%s · %3.f%% · %s · esc: quit",
		shown, m.viewport.ScrollPercent()*100, mode)
}
