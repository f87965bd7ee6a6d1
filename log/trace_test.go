package log

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/exlog/pkg"
)

func TestTrace_EndToEnd(t *testing.T) {
	l := newTestLogger(t, time.Second)

	l.Enter("main")
	l.Enter("f", 1, "two")
	l.Leave("f")
	l.Leave("main")

	want := []string{
		"(T) 20240102 03:04:05 - enter main",
		"(T) 20240102 03:04:06 - : enter f(1, two)",
		"(T) 20240102 03:04:07 - : leave f (1 seconds)",
		"(T) 20240102 03:04:08 - leave main (3 seconds)",
	}

	if got := lines(l.out); !slices.Equal(got, want) {
		t.Errorf("trace lines:\n got %q\nwant %q", got, want)
	}

	if l.errs.Len() != 0 {
		t.Errorf("unexpected error stream output %q", l.errs.String())
	}

	if d := l.State().Depth(); d != -1 {
		t.Errorf("final depth = %d, want -1", d)
	}
}

func TestTrace_PairedCallsRestoreDepth(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			l := newTestLogger(t, 0)

			for i := range n {
				l.Enter("f" + strconv.Itoa(i))
			}

			if d := l.State().Depth(); d != n-1 {
				t.Fatalf("depth after %d enters = %d", n, d)
			}

			for i := n - 1; i >= 0; i-- {
				l.Leave("f" + strconv.Itoa(i))
			}

			if d := l.State().Depth(); d != -1 {
				t.Errorf("final depth = %d, want -1", d)
			}

			if n := countPrefix(lines(l.out), "(E) "); n != 0 {
				t.Errorf("expected no errors, got %d", n)
			}
		})
	}
}

func TestTrace_Transitions(t *testing.T) {
	l := newTestLogger(t, 0)

	for _, tr := range []string{"enter", "ENTER", "e"} {
		if err := l.Trace(tr, "f"); err != nil {
			t.Fatalf("Trace(%q) returned error: %v", tr, err)
		}
	}

	for _, tr := range []string{"Leave", "l", "LEAVE"} {
		if err := l.Trace(tr, "f"); err != nil {
			t.Fatalf("Trace(%q) returned error: %v", tr, err)
		}
	}

	if d := l.State().Depth(); d != -1 {
		t.Errorf("final depth = %d, want -1", d)
	}
}

func TestTrace_InvalidTransitionIsUsageError(t *testing.T) {
	l := newTestLogger(t, 0)

	err := l.Trace("exit", "f")
	if err != nil {
		t.Fatalf("\"exit\" begins with e and must enter, got %v", err)
	}

	err = l.Trace("return", "f")
	if !errors.Is(err, pkg.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	errLines := lines(l.errs)
	if len(errLines) != 1 || countPrefix(errLines, "(P) ") != 1 {
		t.Fatalf("expected exactly one (P) line, got %q", errLines)
	}

	if !strings.HasSuffix(errLines[0], "programmer error - what does transition 'return' mean?") {
		t.Errorf("unexpected diagnostic %q", errLines[0])
	}

	if d := l.State().Depth(); d != 0 {
		t.Errorf("invalid transition must not change depth, got %d", d)
	}
}

func TestTrace_MismatchedLeave(t *testing.T) {
	l := newTestLogger(t, 0)

	l.Enter("main")
	l.Enter("A")
	l.out.Reset()

	l.Leave("B")

	got := lines(l.out)
	if n := countPrefix(got, "(E) "); n != 2 {
		t.Fatalf("expected exactly two error lines, got %q", got)
	}

	if !strings.HasSuffix(got[0], "error - arg f 'B' does not match stack f 'A'") {
		t.Errorf("first error = %q", got[0])
	}

	if got[1] != "(E) . . . . . . . . . . : check leave calls in 'A'" {
		t.Errorf("second error = %q", got[1])
	}

	if !strings.HasSuffix(got[2], ": leave B (0 seconds)") {
		t.Errorf("trace line = %q", got[2])
	}

	if d := l.State().Depth(); d != 0 {
		t.Errorf("depth after mismatch = %d, want 0", d)
	}

	if n := countPrefix(lines(l.errs), "(E) "); n != 2 {
		t.Errorf("expected both errors on the error stream, got %d", n)
	}
}

func TestTrace_Underflow(t *testing.T) {
	l := newTestLogger(t, 0)

	l.Leave("orphan")

	got := lines(l.out)
	if len(got) != 1 || countPrefix(got, "(E) ") != 1 {
		t.Fatalf("expected exactly one error line, got %q", got)
	}

	want := "error - the call Trace(writer, leave, orphan) made the nesting level negative"
	if !strings.HasSuffix(got[0], want) {
		t.Errorf("underflow error = %q", got[0])
	}

	if d := l.State().Depth(); d != 0 {
		t.Errorf("depth after underflow = %d, want 0", d)
	}
}

func TestTrace_RootFrameUnderflowIsSilent(t *testing.T) {
	for _, frame := range []string{"main", "MAIN", "Main"} {
		t.Run(frame, func(t *testing.T) {
			l := newTestLogger(t, 0)

			l.Leave(frame)

			if l.out.Len() != 0 || l.errs.Len() != 0 {
				t.Errorf("expected no output, got %q / %q", l.out.String(), l.errs.String())
			}

			if d := l.State().Depth(); d != -1 {
				t.Errorf("depth = %d, want -1", d)
			}
		})
	}

	t.Run("custom", func(t *testing.T) {
		l := newTestLogger(t, 0, WithRootFrame("init"))

		l.Leave("init")
		l.Leave("main")

		if n := countPrefix(lines(l.out), "(E) "); n != 1 {
			t.Errorf("expected one error for non-root frame, got %d", n)
		}
	})
}

func TestTrace_TraceLevelSuppressesDeepFrames(t *testing.T) {
	frames := []string{"a", "b", "c", "d"}

	for level := -1; level <= len(frames); level++ {
		t.Run(strconv.Itoa(level), func(t *testing.T) {
			l := newTestLogger(t, 0, WithTraceLevel(level))

			for _, f := range frames {
				l.Enter(f)
			}

			if got := l.State().Frames(); !slices.Equal(got, frames) {
				t.Errorf("suppressed frames must still be tracked: %q", got)
			}

			for i := len(frames) - 1; i >= 0; i-- {
				l.Leave(frames[i])
			}

			want := 2 * min(max(level+1, 0), len(frames))

			got := lines(l.out)
			if n := countPrefix(got, "(T) "); n != want {
				t.Errorf("trace lines = %d, want %d: %q", n, want, got)
			}

			if n := countPrefix(got, "(E) "); n != 0 {
				t.Errorf("unexpected errors: %q", got)
			}
		})
	}
}

func TestTrace_ElapsedSeconds(t *testing.T) {
	l := newTestLogger(t, 1234567*time.Microsecond)

	l.Enter("f")
	l.Leave("f")

	got := lines(l.out)
	if len(got) != 2 || !strings.HasSuffix(got[1], "leave f (1.2346 seconds)") {
		t.Errorf("unexpected trace lines %q", got)
	}
}

func TestTrace_ElapsedSecondsSystemClock(t *testing.T) {
	l := newTestLogger(t, 0, WithClock(SystemClock{}))

	l.Enter("f")
	time.Sleep(20 * time.Millisecond)
	l.Leave("f")

	got := lines(l.out)
	if len(got) != 2 {
		t.Fatalf("unexpected trace lines %q", got)
	}

	open := strings.LastIndexByte(got[1], '(')
	secs, err := strconv.ParseFloat(strings.TrimSuffix(got[1][open+1:], " seconds)"), 64)
	if err != nil {
		t.Fatalf("cannot parse elapsed time in %q: %v", got[1], err)
	}

	if secs < 0.015 || secs > 5 {
		t.Errorf("elapsed = %v seconds, want about 0.02", secs)
	}
}

func TestTrace_FilterSuppressesFrames(t *testing.T) {
	filter, err := CompileFilter(`frame != "noise" && depth < 3`)
	if err != nil {
		t.Fatal(err)
	}

	l := newTestLogger(t, 0, WithFilter(filter))

	for _, f := range []string{"main", "noise", "work", "deep"} {
		l.Enter(f)
	}

	for _, f := range []string{"deep", "work", "noise", "main"} {
		l.Leave(f)
	}

	var traced []string

	for _, ln := range lines(l.out) {
		traced = append(traced, strings.TrimSpace(ln[strings.Index(ln, " - ")+3:]))
	}

	want := []string{
		"enter main",
		": : enter work",
		": : leave work (0 seconds)",
		"leave main (0 seconds)",
	}

	if !slices.Equal(traced, want) {
		t.Errorf("traced = %q, want %q", traced, want)
	}
}

func TestTrace_ForkedStatesAreIndependent(t *testing.T) {
	l := newTestLogger(t, 0, WithClock(SystemClock{}))

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func(f Logger) {
			defer wg.Done()

			name := "worker" + strconv.Itoa(i)

			f.Enter(name)
			f.Enter("step")
			f.Leave("step")
			f.Leave(name)

			if d := f.State().Depth(); d != -1 {
				t.Errorf("%s: final depth = %d", name, d)
			}
		}(l.Fork())
	}

	wg.Wait()

	got := lines(l.out)
	if n := countPrefix(got, "(T) "); n != 32 {
		t.Errorf("expected 32 trace lines, got %d", n)
	}

	if n := countPrefix(got, "(E) "); n != 0 {
		t.Errorf("unexpected errors: %q", got)
	}

	if d := l.State().Depth(); d != -1 {
		t.Errorf("parent state changed: depth %d", d)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0"},
		{40 * time.Microsecond, "0"},
		{50 * time.Microsecond, "0.0001"},
		{1500 * time.Millisecond, "1.5"},
		{123456789 * time.Nanosecond, "0.1235"},
		{3 * time.Second, "3"},
		{90 * time.Minute, "5400"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.d); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
