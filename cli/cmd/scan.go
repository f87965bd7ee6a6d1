package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/exlog/log"
	"github.com/ardnew/exlog/pkg"
	"github.com/ardnew/exlog/scan"
)

// Output formats of the scan command.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// Formats returns the output formats of the scan command.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatMsgpack}
}

// defaultOutputIndent is the indent width of JSON and YAML output.
const defaultOutputIndent = 2

// Scan reads execution logs back into records and prints the records, the
// per-frame profile or the call tree they describe.
type Scan struct {
	Tag     []string `help:"Keep only lines with these tags (F, E, W, N, T, P)"    placeholder:"TAG"     sep:"," short:"t"`
	Frame   string   `help:"Keep only trace lines of frames fuzzy-matching PATTERN" placeholder:"PATTERN"         short:"m"`
	Profile bool     `help:"Print elapsed time per frame instead of records"                                                 xor:"mode"`
	Tree    bool     `help:"Print the call tree instead of records"                                                          xor:"mode"`
	Output  string   `help:"Output format (${scanFormats})" default:"text" enum:"text,json,yaml,msgpack" short:"o"`

	Files []string `arg:"" default:"-" help:"Execution logs, optionally gzip or zstd compressed, or '-' for stdin" name:"file"`

	stdout io.Writer
}

// Run executes the scan command.
func (s *Scan) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdout := s.stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	sources := uniqueSources(s.Files)
	if len(sources) == 0 {
		return ErrNoSource
	}

	keep, err := s.predicate()
	if err != nil {
		return ErrScanLog.Wrap(err)
	}

	records, err := readAll(ctx, sources, keep)
	if err != nil {
		return err
	}

	if s.Frame != "" {
		frames := scan.Match(s.Frame, scan.Names(records))
		slog.DebugContext(ctx, "matched frames",
			slog.String("pattern", s.Frame), slog.Any("frames", frames))

		records = collectIf(records, scan.Frames(frames...))
	}

	switch {
	case s.Profile:
		stats := scan.Profile(records)

		return s.write(stdout, stats, func(w io.Writer) error {
			for _, st := range stats {
				if _, err := fmt.Fprintf(w, "%-24s %6d %12.4f %12.4f %12.4f\n",
					st.Frame, st.Calls, st.Total, st.Max, st.Mean); err != nil {
					return err
				}
			}

			return nil
		})

	case s.Tree:
		roots := scan.Tree(records)

		return s.write(stdout, roots, func(w io.Writer) error {
			for _, root := range roots {
				for n := range root.Walk() {
					if _, err := fmt.Fprintln(w, nodeLabel(n)); err != nil {
						return err
					}
				}
			}

			return nil
		})

	default:
		return s.write(stdout, records, func(w io.Writer) error {
			for _, rec := range records {
				if _, err := fmt.Fprintln(w, rec.String()); err != nil {
					return err
				}
			}

			return nil
		})
	}
}

// predicate returns the record filter selected by the tag flag.
func (s *Scan) predicate() (scan.Predicate, error) {
	if len(s.Tag) == 0 {
		return nil, nil
	}

	tags := make([]log.Tag, 0, len(s.Tag))

	for _, t := range s.Tag {
		tag, ok := log.ParseTag(t)
		if !ok {
			return nil, pkg.ErrInvalidFormat.Wrapf("unknown tag %q", t)
		}

		tags = append(tags, tag)
	}

	return scan.Filter(tags...), nil
}

// write encodes v in the selected output format, or calls text for the
// plain text format.
func (s *Scan) write(w io.Writer, v any, text func(io.Writer) error) error {
	attr := slog.String("format", s.Output)

	switch s.Output {
	case FormatText, "":
		return text(w)

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", defaultOutputIndent))

		if err := enc.Encode(v); err != nil {
			return ErrJSONMarshal.With(attr).Wrap(err)
		}

	case FormatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(defaultOutputIndent))
		if err != nil {
			return ErrYAMLMarshal.With(attr).Wrap(err)
		}

		if _, err := w.Write(data); err != nil {
			return err
		}

	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(v); err != nil {
			return ErrMsgpackMarshal.With(attr).Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: %s)", s.Output,
			strings.Join(Formats(), ", "))
	}

	return nil
}

// readAll reads the sources concurrently and returns their records in the
// order the sources were given. Lines that are not log records are skipped.
func readAll(ctx context.Context, sources []string, keep scan.Predicate) ([]scan.Record, error) {
	parts := make([][]scan.Record, len(sources))

	g, ctx := errgroup.WithContext(ctx)

	for i, src := range sources {
		g.Go(func() error {
			recs, err := readSource(ctx, src, keep)
			if err != nil {
				return ErrScanLog.With(slog.String("file", src)).Wrap(err)
			}

			parts[i] = recs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []scan.Record

	for _, p := range parts {
		records = append(records, p...)
	}

	return records, nil
}

func readSource(ctx context.Context, src string, keep scan.Predicate) ([]scan.Record, error) {
	rc, err := scan.Open(src)
	if err != nil {
		return nil, err
	}

	defer rc.Close()

	seq := scan.ReadNamed(rc, src)
	if keep != nil {
		seq = scan.Select(seq, keep)
	}

	recs, err := scan.Collect(seq)
	if err != nil {
		return nil, err
	}

	return recs, context.Cause(ctx)
}

func collectIf(records []scan.Record, keep scan.Predicate) []scan.Record {
	var out []scan.Record

	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}

	return out
}

// nodeLabel renders one call tree node, indented to its depth.
func nodeLabel(n *scan.Node) string {
	label := log.Indent(n.Depth) + n.Frame
	if n.Args != "" {
		label += "(" + n.Args + ")"
	}

	if !n.Closed {
		return label + " (open)"
	}

	return label + " " + strconv.FormatFloat(n.Seconds, 'f', -1, 64) + "s"
}
