package scan

import (
	"cmp"
	"iter"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/exlog/log"
)

// Predicate reports whether a record is kept.
type Predicate func(Record) bool

// Filter returns a Predicate keeping records with any of the given tags.
// With no tags every record is kept.
func Filter(tags ...log.Tag) Predicate {
	if len(tags) == 0 {
		return func(Record) bool { return true }
	}

	return func(rec Record) bool { return slices.Contains(tags, rec.Tag) }
}

// Frames returns a Predicate keeping trace records whose frame is one of
// names.
func Frames(names ...string) Predicate {
	return func(rec Record) bool {
		return rec.Frame != "" && slices.Contains(names, rec.Frame)
	}
}

// And returns a Predicate keeping records kept by p and every other.
func (p Predicate) And(other ...Predicate) Predicate {
	return func(rec Record) bool {
		if p != nil && !p(rec) {
			return false
		}

		for _, o := range other {
			if o != nil && !o(rec) {
				return false
			}
		}

		return true
	}
}

// Select returns the records of seq kept by keep. Errors pass through.
func Select(seq iter.Seq2[Record, error], keep Predicate) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for rec, err := range seq {
			if err == nil && keep != nil && !keep(rec) {
				continue
			}

			if !yield(rec, err) {
				return
			}
		}
	}
}

// Stat summarizes the leave records of one frame.
type Stat struct {
	Frame string  `json:"frame" yaml:"frame" msgpack:"frame"`
	Calls int     `json:"calls" yaml:"calls" msgpack:"calls"`
	Total float64 `json:"total" yaml:"total" msgpack:"total"`
	Max   float64 `json:"max"   yaml:"max"   msgpack:"max"`
	Mean  float64 `json:"mean"  yaml:"mean"  msgpack:"mean"`
}

// Profile aggregates the elapsed seconds of every leave record by frame.
// The result is ordered by total time, most expensive first.
func Profile(records []Record) []Stat {
	index := map[string]int{}

	var stats []Stat

	for _, rec := range records {
		if rec.Kind != KindLeave {
			continue
		}

		i, ok := index[rec.Frame]
		if !ok {
			i = len(stats)
			index[rec.Frame] = i
			stats = append(stats, Stat{Frame: rec.Frame})
		}

		s := &stats[i]
		s.Calls++
		s.Total += rec.Seconds
		s.Max = max(s.Max, rec.Seconds)
	}

	for i := range stats {
		stats[i].Mean = stats[i].Total / float64(stats[i].Calls)
	}

	slices.SortStableFunc(stats, func(a, b Stat) int {
		return cmp.Or(cmp.Compare(b.Total, a.Total), cmp.Compare(a.Frame, b.Frame))
	})

	return stats
}

// Node is one traced frame in a call tree.
type Node struct {
	Frame    string   `json:"frame"              yaml:"frame"              msgpack:"frame"`
	Args     string   `json:"args,omitempty"     yaml:"args,omitempty"     msgpack:"args,omitempty"`
	Depth    int      `json:"depth"              yaml:"depth"              msgpack:"depth"`
	Seconds  float64  `json:"seconds"            yaml:"seconds"            msgpack:"seconds"`
	Closed   bool     `json:"closed"             yaml:"closed"             msgpack:"closed"`
	Messages []Record `json:"messages,omitempty" yaml:"messages,omitempty" msgpack:"messages,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// Tree rebuilds the call tree from the trace records. Messages are attached
// to the innermost open frame they were indented under; messages outside any
// frame are dropped. Frames left open at the end of the log have Closed false.
//
// Nesting is taken from each record's depth, so a log containing
// mismatched or suppressed frames still yields a tree.
func Tree(records []Record) []*Node {
	var (
		roots []*Node
		stack []*Node
	)

	for _, rec := range records {
		switch rec.Kind {
		case KindEnter:
			n := &Node{Frame: rec.Frame, Args: rec.Args, Depth: rec.Depth}

			stack = stack[:min(rec.Depth, len(stack))]

			if len(stack) == 0 {
				roots = append(roots, n)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}

			stack = append(stack, n)

		case KindLeave:
			if rec.Depth < len(stack) {
				n := stack[rec.Depth]
				n.Seconds = rec.Seconds
				n.Closed = true
				stack = stack[:rec.Depth]
			}

		case KindMessage, KindAddendum:
			// Messages share the indentation of their frame's enter line.
			if i := min(rec.Depth, len(stack)-1); i >= 0 {
				n := stack[i]
				n.Messages = append(n.Messages, rec)
			}
		}
	}

	return roots
}

// Walk returns an iterator over n and its descendants in depth-first
// order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}

	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}

	return true
}

// Match ranks frames by how well they match pattern, best first, using
// fuzzy subsequence matching. Frames that do not match are omitted; an empty
// pattern returns frames unchanged.
func Match(pattern string, frames []string) []string {
	if pattern == "" {
		return frames
	}

	matches := fuzzy.Find(pattern, frames)

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}

// Names returns the distinct frame names of the trace records, in order of
// first appearance.
func Names(records []Record) []string {
	seen := map[string]bool{}

	var names []string

	for _, rec := range records {
		if rec.Frame == "" || seen[rec.Frame] {
			continue
		}

		seen[rec.Frame] = true
		names = append(names, rec.Frame)
	}

	return names
}
