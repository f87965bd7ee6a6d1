package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/exlog/scan"
)

func TestWithLogFile(t *testing.T) {
	t.Parallel()

	if got := logFileFrom(context.Background()); got != "" {
		t.Errorf("logFileFrom(empty) = %q, want empty", got)
	}

	ctx := WithLogFile(context.Background(), "demo.log")
	if got := logFileFrom(ctx); got != "demo.log" {
		t.Errorf("logFileFrom() = %q, want %q", got, "demo.log")
	}
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	link := filepath.Join(dir, "link.log")
	missing := filepath.Join(dir, "missing.log")

	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte("(T) x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{
			name:    "empty",
			sources: nil,
			want:    nil,
		},
		{
			name:    "distinct_files_keep_order",
			sources: []string{second, first},
			want:    []string{second, first},
		},
		{
			name:    "same_file_twice",
			sources: []string{first, first},
			want:    []string{first},
		},
		{
			name:    "relative_and_absolute",
			sources: []string{"first.log", first},
			want:    []string{"first.log"},
		},
		{
			name:    "symlink_to_file",
			sources: []string{first, link},
			want:    []string{first},
		},
		{
			name:    "stdin_moved_last",
			sources: []string{scan.Stdin, first, scan.Stdin, second},
			want:    []string{first, second, scan.Stdin},
		},
		{
			name:    "unresolvable_kept",
			sources: []string{missing, first, missing},
			want:    []string{missing, first, missing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uniqueSources(tt.sources)
			if !slices.Equal(got, tt.want) {
				t.Errorf("uniqueSources(%q) = %q, want %q", tt.sources, got, tt.want)
			}
		})
	}
}

func TestMakeFileKey_Nil(t *testing.T) {
	t.Parallel()

	if _, ok := makeFileKey(nil); ok {
		t.Error("makeFileKey(nil) reported ok")
	}
}
