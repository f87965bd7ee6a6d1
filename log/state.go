package log

import (
	"strings"
	"time"
)

// frame is one entry of the trace stack.
type frame struct {
	name    string
	entered time.Time
}

// State is the nesting stack of one logical call stack: a depth counter and
// the name and entry time of the frame at each depth.
//
// Depth starts at -1, meaning no traced frame is open. The stack always
// holds exactly depth+1 frames, so the frame at the current depth is on top.
//
// A State is not safe for concurrent use. Give each goroutine its own State
// with [Logger.Fork].
type State struct {
	depth  int
	frames []frame
}

// NewState returns an empty State at depth -1.
func NewState() *State {
	return &State{depth: -1}
}

// Depth returns the number of open frames minus one.
func (s *State) Depth() int { return s.depth }

// Frames returns the names of the open frames, outermost first. Frames
// restored after an underflow have empty names.
func (s *State) Frames() []string {
	names := make([]string, len(s.frames))
	for i, f := range s.frames {
		names[i] = f.name
	}

	return names
}

// String renders the open frames as a call path.
func (s *State) String() string {
	return strings.Join(s.Frames(), " > ")
}

// indent returns the indentation for the current depth.
func (s *State) indent() string { return Indent(s.depth) }

// push opens a frame named name, entered at t, and returns the new depth.
func (s *State) push(name string, t time.Time) int {
	s.depth++
	s.sync()
	s.frames[s.depth] = frame{name: name, entered: t}

	return s.depth
}

// top returns the frame at the current depth. It reports false when the
// depth is negative or the frame was lost to an underflow.
func (s *State) top() (frame, bool) {
	if s.depth < 0 || s.depth >= len(s.frames) {
		return frame{}, false
	}

	f := s.frames[s.depth]

	return f, !f.entered.IsZero()
}

// pop closes the frame at the current depth. If that takes the depth below
// -1 the stack is repaired: a root frame restores depth -1, any other frame
// clamps the depth to 0. pop reports whether the depth was clamped to 0.
func (s *State) pop(name, root string) (underflow bool) {
	s.depth--

	if s.depth < -1 {
		if strings.EqualFold(name, root) {
			s.depth = -1
		} else {
			s.depth = 0
			underflow = true
		}
	}

	s.sync()

	return underflow
}

// sync resizes the stack to depth+1 frames. Frames that were never entered
// are left zero.
func (s *State) sync() {
	n := max(s.depth+1, 0)

	if len(s.frames) > n {
		clear(s.frames[n:])
		s.frames = s.frames[:n]
	}

	for len(s.frames) < n {
		s.frames = append(s.frames, frame{})
	}
}
