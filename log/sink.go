package log

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/exlog/pkg"
)

// Sink is a writable log destination. Writes are serialized so that lines
// from concurrent callers never interleave.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	name   string
	render *lipgloss.Renderer
}

// Stderr is the sink aliasing the process's standard error stream.
// It is never closed.
//
//nolint:gochecknoglobals
var Stderr = NewSink(os.Stderr, "STDERR")

// NewSink returns a sink writing to w. If w is an [io.Closer] other than the
// standard error stream, [Sink.Close] closes it.
func NewSink(w io.Writer, name string) *Sink {
	if w == nil {
		w = io.Discard
	}

	s := &Sink{w: w, name: name}

	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		s.closer = c
	}

	return s
}

// sinkFor wraps w in a sink, reusing [Stderr] for the standard error stream.
func sinkFor(w io.Writer) *Sink {
	switch w := w.(type) {
	case nil:
		return nil
	case *Sink:
		return w
	case *os.File:
		if w == os.Stderr {
			return Stderr
		}

		return NewSink(w, w.Name())
	default:
		return NewSink(w, "writer")
	}
}

// OpenSink creates or truncates the file at path and returns a sink
// writing to it. The error wraps [pkg.ErrOpenLog].
func OpenSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, pkg.ErrOpenLog.Wrap(err)
	}

	return NewSink(f, path), nil
}

// Name returns the path or descriptive name of the destination.
func (s *Sink) Name() string {
	if s == nil {
		return "<nil>"
	}

	return s.name
}

// String implements [fmt.Stringer].
func (s *Sink) String() string { return s.Name() }

// IsStderr reports whether s aliases the standard error stream.
func (s *Sink) IsStderr() bool {
	return s == Stderr || s.w == os.Stderr
}

// Write implements [io.Writer]. It lets callers add raw text, such as
// program output, to the log without interleaving it with log lines.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

// Close releases the underlying destination. Closing a sink that aliases
// the standard error stream, or closing a sink twice, does nothing.
func (s *Sink) Close() error {
	if s == nil || s.IsStderr() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer == nil {
		return nil
	}

	err := s.closer.Close()
	s.closer = nil
	s.w = io.Discard

	return err
}

// writeLine formats ln and writes it followed by a newline.
func (s *Sink) writeLine(ln Line, pretty bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var text string

	if pretty {
		if s.render == nil {
			s.render = lipgloss.NewRenderer(s.w)
		}

		text = ln.styled(s.render)
	} else {
		text = ln.String()
	}

	_, err := io.WriteString(s.w, text+"\n")

	return err
}

// primary holds the process-wide primary sink.
//
//nolint:gochecknoglobals
var primary struct {
	sync.RWMutex

	sink *Sink
}

// Primary returns the process-wide primary sink, or nil if none is
// installed.
func Primary() *Sink {
	primary.RLock()
	defer primary.RUnlock()

	return primary.sink
}

// Install makes s the process-wide primary sink and returns the sink it
// replaces. Install(nil) uninstalls the primary sink.
func Install(s *Sink) (prev *Sink) {
	primary.Lock()
	defer primary.Unlock()

	prev, primary.sink = primary.sink, s

	return prev
}
