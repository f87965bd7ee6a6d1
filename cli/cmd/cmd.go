package cmd

import (
	"context"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/exlog/scan"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type logFileKey struct{}

// WithLogFile returns a new context.Context carrying the path of the
// execution log requested on the command line. An empty path selects the
// default log name.
func WithLogFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, logFileKey{}, path)
}

func logFileFrom(ctx context.Context) string {
	path, _ := ctx.Value(logFileKey{}).(string)

	return path
}

type traceLevelKey struct{}

// WithTraceLevelSet returns a new context.Context recording that the trace
// level was given on the command line or in the configuration file.
// Commands with their own default level keep the given one instead.
func WithTraceLevelSet(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceLevelKey{}, true)
}

func traceLevelSet(ctx context.Context) bool {
	set, _ := ctx.Value(traceLevelKey{}).(bool)

	return set
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources returns the paths of sources with duplicates removed.
//
// Duplicates are detected by resolving symlinks and comparing device/inode
// pairs. All occurrences of [scan.Stdin] are replaced with a single entry
// placed last so it reads after all regular files. Paths that cannot be
// resolved are kept so that opening them reports the error.
func uniqueSources(sources []string) []string {
	var (
		paths    []string
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == scan.Stdin {
			hasStdin = true

			continue
		}

		key, ok := resolveFileKey(src)
		if !ok {
			paths = append(paths, src)

			continue
		}

		// Stdin may have been named explicitly, e.g. /dev/stdin.
		if stdinOK && key == stdinKey {
			hasStdin = true

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		paths = append(paths, src)
	}

	if hasStdin {
		paths = append(paths, scan.Stdin)
	}

	return paths
}

// resolveFileKey resolves symlinks in path and returns its device/inode key.
func resolveFileKey(path string) (fileKey, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
