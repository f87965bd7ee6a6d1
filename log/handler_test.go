package log

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ardnew/exlog/pkg"
)

func TestHandler_MapsLevels(t *testing.T) {
	tests := []struct {
		level  slog.Level
		prefix string
		phrase string
	}{
		{slog.LevelDebug, "(N) ", "TestHandler_MapsLevels:("},
		{slog.LevelInfo, "(N) ", "TestHandler_MapsLevels:("},
		{slog.LevelWarn, "(W) ", "warning - "},
		{slog.LevelError, "(E) ", "error - "},
		{LevelFatal, "(F) ", "fatal error - "},
	}

	for _, tt := range tests {
		l := newTestLogger(t, 0)
		logger := slog.New(l.Handler(nil))

		logger.Log(context.Background(), tt.level, "disk low", "pct", 93)

		got := l.out.String()
		if !strings.HasPrefix(got, tt.prefix) || !strings.Contains(got, tt.phrase) {
			t.Errorf("%v: got %q", tt.level, got)
		}

		if !strings.HasSuffix(got, "disk low pct=93\n") {
			t.Errorf("%v: attributes missing in %q", tt.level, got)
		}
	}
}

func TestHandler_Level(t *testing.T) {
	l := newTestLogger(t, 0)
	logger := slog.New(l.Handler(slog.LevelWarn))

	logger.Info("dropped")
	logger.Warn("kept")

	if got := lines(l.out); len(got) != 1 || !strings.HasSuffix(got[0], "warning - kept") {
		t.Errorf("got %q", got)
	}
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	l := newTestLogger(t, 0)
	logger := slog.New(l.Handler(nil)).
		With("run", 1).
		WithGroup("pascal").
		With("rows", 5)

	logger.Info("row", "n", 2, slog.Group("cell", "col", 0, "val", 1))

	want := "row run=1 pascal.rows=5 pascal.n=2 pascal.cell.col=0 pascal.cell.val=1\n"
	if got := l.out.String(); !strings.HasSuffix(got, want) {
		t.Errorf("got %q, want suffix %q", got, want)
	}
}

func TestHandler_IndentsToTraceDepth(t *testing.T) {
	l := newTestLogger(t, 0)
	l.Enter("main")
	l.Enter("f")
	l.out.Reset()

	slog.New(l.Handler(nil)).Info("inside")

	if got := l.out.String(); !strings.Contains(got, " - : exlog::") {
		t.Errorf("expected indented message, got %q", got)
	}
}

func TestCompileFilter(t *testing.T) {
	for _, src := range []string{`frame == "main"`, `depth < 2`, `frame matches "^gen" || depth == 0`} {
		f, err := CompileFilter(src)
		if err != nil {
			t.Errorf("CompileFilter(%q): %v", src, err)

			continue
		}

		if f.String() != src {
			t.Errorf("String() = %q", f.String())
		}
	}

	for _, src := range []string{`frame +`, `depth`, `unknown == 1`} {
		if _, err := CompileFilter(src); !errors.Is(err, pkg.ErrFilter) {
			t.Errorf("CompileFilter(%q) error = %v, want ErrFilter", src, err)
		}
	}
}

func TestFilter_Admit(t *testing.T) {
	f, err := CompileFilter(`frame matches "^gen" || depth == 0`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		depth int
		frame string
		want  bool
	}{
		{0, "main", true},
		{1, "generate_next_row", true},
		{1, "display_row", false},
		{4, "gen", true},
	}

	for _, tt := range tests {
		if got := f.Admit(tt.depth, tt.frame); got != tt.want {
			t.Errorf("Admit(%d, %q) = %v, want %v", tt.depth, tt.frame, got, tt.want)
		}
	}

	var none *Filter
	if !none.Admit(9, "anything") || none.String() != "" {
		t.Error("nil filter must admit everything")
	}
}

func TestContext(t *testing.T) {
	l := newTestLogger(t, 0).Fork()

	got := FromContext(WithContext(context.Background(), l))
	if got.State() != l.State() {
		t.Error("FromContext did not return the stored logger")
	}

	if FromContext(context.Background()).State() != Default().State() {
		t.Error("FromContext without a logger must return the default logger")
	}
}

func TestDefault_ConfigKeepsState(t *testing.T) {
	prev := SetDefault(Make(nil))
	t.Cleanup(func() { SetDefault(prev) })

	state := Default().State()

	Config(WithTraceLevel(2))

	if Default().TraceLevel() != 2 {
		t.Errorf("TraceLevel() = %d", Default().TraceLevel())
	}

	if Default().State() != state {
		t.Error("Config must keep the default state")
	}
}

func TestWithTimeLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{"", "20240102 03:04:05"},
		{"default", "20240102 03:04:05"},
		{"RFC3339", "2024-01-02T03:04:05Z"},
		{"date-time", "2024-01-02 03:04:05"},
		{"Kitchen", "3:04AM"},
		{"15h04", "03h04"},
	}

	for _, tt := range tests {
		l := newTestLogger(t, 0, WithTimeLayout(tt.layout))
		l.Enter("main")

		want := "(T) " + tt.want + " - enter main\n"
		if got := l.out.String(); got != want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, want)
		}
	}
}

func TestWithPretty_PlainForNonTerminal(t *testing.T) {
	l := newTestLogger(t, 0, WithPretty(true))
	l.Enter("main")

	if got := l.out.String(); got != "(T) 20240102 03:04:05 - enter main\n" {
		t.Errorf("expected no escape sequences for a buffer, got %q", got)
	}
}
