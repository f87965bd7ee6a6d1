package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/exlog/log"
	"github.com/ardnew/exlog/pkg"
	"github.com/ardnew/exlog/scan"
)

// writeSession writes a short execution log and returns its path. The clock
// advances a quarter second on every reading.
func writeSession(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.log")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2012, 11, 15, 15, 4, 5, 0, time.UTC)

	l := log.Make(f,
		log.WithProgram("exlog"),
		log.WithErrorOutput(io.Discard),
		log.WithClock(log.ClockFunc(func() time.Time {
			at := now
			now = now.Add(250 * time.Millisecond)

			return at
		})),
	)

	l.Enter("main")
	l.Note("starting")
	l.Enter("work", 1)
	l.Warning("slow")
	l.Leave("work")
	l.Enter("work", 2)
	l.Leave("work")
	l.Leave("main")

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func runScan(t *testing.T, s Scan) string {
	t.Helper()

	var out bytes.Buffer

	s.stdout = &out
	if s.Output == "" {
		s.Output = FormatText
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Scan.Run() error = %v", err)
	}

	return out.String()
}

func TestScan_Text(t *testing.T) {
	t.Parallel()

	path := writeSession(t)

	got := runScan(t, Scan{Files: []string{path}})

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got != string(want) {
		t.Errorf("Scan text output differs from log:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestScan_TagFilter(t *testing.T) {
	t.Parallel()

	path := writeSession(t)

	got := strings.Split(strings.TrimSpace(runScan(t, Scan{
		Files: []string{path},
		Tag:   []string{"N", "(W)"},
	})), "\n")

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(got), strings.Join(got, "\n"))
	}

	if !strings.HasPrefix(got[0], "(N) ") || !strings.HasPrefix(got[1], "(W) ") {
		t.Errorf("unexpected lines:\n%s", strings.Join(got, "\n"))
	}
}

func TestScan_UnknownTag(t *testing.T) {
	t.Parallel()

	s := Scan{Files: []string{writeSession(t)}, Tag: []string{"X"}, stdout: io.Discard}

	if err := s.Run(context.Background()); !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("Scan.Run() error = %v, want %v", err, pkg.ErrInvalidFormat)
	}
}

func TestScan_FrameMatch(t *testing.T) {
	t.Parallel()

	var recs []scan.Record

	out := runScan(t, Scan{
		Files:  []string{writeSession(t)},
		Frame:  "wrk",
		Output: FormatJSON,
	})

	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4", len(recs))
	}

	for _, rec := range recs {
		if rec.Frame != "work" {
			t.Errorf("record frame = %q, want work", rec.Frame)
		}
	}
}

func TestScan_Formats(t *testing.T) {
	t.Parallel()

	path := writeSession(t)

	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{format: FormatJSON, unmarshal: json.Unmarshal},
		{format: FormatYAML, unmarshal: yaml.Unmarshal},
		{format: FormatMsgpack, unmarshal: msgpack.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			out := runScan(t, Scan{Files: []string{path}, Output: tt.format})

			var recs []scan.Record
			if err := tt.unmarshal([]byte(out), &recs); err != nil {
				t.Fatalf("decode %s: %v", tt.format, err)
			}

			if len(recs) != 8 {
				t.Fatalf("got %d records, want 8", len(recs))
			}

			if recs[0].Kind != scan.KindEnter || recs[0].Frame != "main" {
				t.Errorf("first record = %+v, want enter main", recs[0])
			}

			if last := recs[len(recs)-1]; last.Kind != scan.KindLeave || last.Source != path {
				t.Errorf("last record = %+v, want leave from %s", last, path)
			}
		})
	}
}

func TestScan_InvalidFormat(t *testing.T) {
	t.Parallel()

	s := Scan{Files: []string{writeSession(t)}, Output: "xml", stdout: io.Discard}

	if err := s.Run(context.Background()); !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("Scan.Run() error = %v, want %v", err, pkg.ErrInvalidFormat)
	}
}

func TestScan_Profile(t *testing.T) {
	t.Parallel()

	var stats []scan.Stat

	out := runScan(t, Scan{
		Files:   []string{writeSession(t)},
		Profile: true,
		Output:  FormatYAML,
	})

	if err := yaml.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}

	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}

	if stats[0].Frame != "main" || stats[0].Calls != 1 {
		t.Errorf("stats[0] = %+v, want main with 1 call", stats[0])
	}

	if stats[1].Frame != "work" || stats[1].Calls != 2 {
		t.Errorf("stats[1] = %+v, want work with 2 calls", stats[1])
	}
}

func TestScan_Tree(t *testing.T) {
	t.Parallel()

	got := strings.Split(strings.TrimSpace(runScan(t, Scan{
		Files: []string{writeSession(t)},
		Tree:  true,
	})), "\n")

	want := []string{"main ", ": work(1) ", ": work(2) "}

	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}

	for i := range want {
		if !strings.HasPrefix(got[i], want[i]) || !strings.HasSuffix(got[i], "s") {
			t.Errorf("line %d = %q, want prefix %q", i, got[i], want[i])
		}
	}
}

func TestScan_MultipleFilesKeepOrder(t *testing.T) {
	t.Parallel()

	first, second := writeSession(t), writeSession(t)

	var recs []scan.Record

	out := runScan(t, Scan{Files: []string{second, first, second}, Output: FormatJSON})

	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatal(err)
	}

	if len(recs) != 16 {
		t.Fatalf("got %d records, want 16", len(recs))
	}

	if recs[0].Source != second || recs[8].Source != first {
		t.Errorf("sources = %s, %s; want %s, %s", recs[0].Source, recs[8].Source, second, first)
	}
}

func TestScan_MissingFile(t *testing.T) {
	t.Parallel()

	s := Scan{
		Files:  []string{filepath.Join(t.TempDir(), "missing.log")},
		stdout: io.Discard,
	}

	var cerr *Error
	if err := s.Run(context.Background()); !errors.As(err, &cerr) {
		t.Errorf("Scan.Run() error = %v, want *Error", err)
	}
}
