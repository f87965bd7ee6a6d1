package pkg

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "exlog"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile(filepath.Join(".", "VERSION"))
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}
}

func TestProgram_NotEmpty(t *testing.T) {
	if Program() == "" {
		t.Error("Expected Program to be non-empty")
	}

	if strings.ContainsRune(Prefix(), '/') {
		t.Errorf("Expected Prefix to be a base name, got %q", Prefix())
	}
}

func TestTrimExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"logging_demo.php", "logging_demo"},
		{"/usr/local/bin/exlog", "exlog"},
		{`exlog.exe`, "exlog"},
		{"archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := TrimExt(tt.path); got != tt.want {
				t.Errorf("TrimExt(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesWrappedSentinel(t *testing.T) {
	err := ErrOpenLog.Wrap(io.ErrClosedPipe)

	if !errors.Is(err, ErrOpenLog) {
		t.Error("expected wrapped error to match its sentinel")
	}

	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected wrapped error to match its cause")
	}

	if errors.Is(err, ErrInvalidSeverity) {
		t.Error("expected wrapped error not to match an unrelated sentinel")
	}

	if got, want := err.Error(), "could not open log file: io: read/write on closed pipe"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_WrapDoesNotModifySentinel(t *testing.T) {
	_ = ErrInvalidSeverity.Wrapf("%q", "x")
	_ = ErrInvalidSeverity.Wrapf("%q", "y")

	if len(ErrInvalidSeverity) != 1 {
		t.Errorf("sentinel chain grew to %d entries", len(ErrInvalidSeverity))
	}
}

func TestRender_Join(t *testing.T) {
	repeat := Render[int](func(n int) string { return strings.Repeat("x", n) })

	tests := []struct {
		name   string
		render Render[int]
		sep    string
		values []int
		want   string
	}{
		{name: "empty", render: repeat, sep: ", ", want: ""},
		{name: "single", render: repeat, sep: ", ", values: []int{2}, want: "xx"},
		{name: "separated", render: repeat, sep: "|", values: []int{1, 0, 3}, want: "x||xxx"},
		{name: "sprint", render: Sprint[int], sep: ", ", values: []int{1, 22, 333}, want: "1, 22, 333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render.Join(tt.sep, tt.values...); got != tt.want {
				t.Errorf("Join(%q, %v) = %q, want %q", tt.sep, tt.values, got, tt.want)
			}
		})
	}
}
