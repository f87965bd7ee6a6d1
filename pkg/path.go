package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Program returns the base name of the running executable, including any
// file extension. It identifies the program in log call sites.
//
// The dlv debugger's default output name ("__debug_bin") is replaced with
// [Name], and leading dots are removed.
//
//nolint:gochecknoglobals
var Program = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		id = filepath.Base(id)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d*`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):            "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			return Name
		}

		return id
	},
)

// Prefix returns [Program] without its file extension. It is the base of
// default log file names and of the configuration directory path.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		return TrimExt(Program())
	},
)

// TrimExt removes the file extension, if any, from the base name of path.
func TrimExt(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
