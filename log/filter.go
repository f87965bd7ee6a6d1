package log

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/exlog/pkg"
)

// filterEnv is the environment a trace filter is evaluated in.
type filterEnv struct {
	Frame string `expr:"frame"`
	Depth int    `expr:"depth"`
}

// Filter is a compiled boolean expression deciding which frames are written.
//
// The expression sees two variables: frame, the frame name, and depth, its
// nesting level. For example:
//
//	frame != "section of interest" && depth < 3
//
// Enter and leave lines of a frame are admitted or rejected together, so the
// written call tree stays balanced.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles source into a [Filter]. The error wraps
// [pkg.ErrFilter].
func CompileFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, pkg.ErrFilter.Wrap(err)
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the source of f.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}

	return f.source
}

// Admit reports whether frame at depth is written. A nil Filter admits
// everything, as does an expression that fails at run time.
func (f *Filter) Admit(depth int, frame string) bool {
	if f == nil || f.program == nil {
		return true
	}

	out, err := expr.Run(f.program, filterEnv{Frame: frame, Depth: depth})
	if err != nil {
		return true
	}

	ok, isBool := out.(bool)

	return !isBool || ok
}
