package log

import (
	"runtime"
	"strconv"
	"strings"
)

// rootFunction names the call site when the caller cannot be resolved,
// matching the name of the otherwise anonymous top level of a program.
const rootFunction = "main"

// Site identifies the origin of a message.
type Site struct {
	Program  string
	Function string
	Line     int
}

// Caller returns the Site of the function skip frames above its caller.
// Caller(0) identifies the function calling Caller.
func Caller(skip int) Site {
	pc, _, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{Function: rootFunction}
	}

	return Site{Function: funcName(pc), Line: line}
}

// siteOf resolves a program counter recorded by [runtime.Callers].
func siteOf(pc uintptr) Site {
	if pc == 0 {
		return Site{Function: rootFunction}
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()

	return Site{Function: shortName(frame.Function), Line: frame.Line}
}

func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return rootFunction
	}

	return shortName(fn.Name())
}

// shortName strips the import path and package qualifier from a fully
// qualified function name:
//
//	github.com/ardnew/exlog/cli/cmd.(*Pascal).Run -> (*Pascal).Run
//	main.main                                     -> main
func shortName(name string) string {
	if name == "" {
		return rootFunction
	}

	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.IndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}

	return name
}

// IsZero reports whether s carries no call-site information.
func (s Site) IsZero() bool { return s == Site{} }

// String formats s as "program::function:(line)".
func (s Site) String() string {
	var sb strings.Builder

	sb.WriteString(s.Program)
	sb.WriteString("::")
	sb.WriteString(s.Function)
	sb.WriteString(":(")
	sb.WriteString(strconv.Itoa(s.Line))
	sb.WriteString(")")

	return sb.String()
}
