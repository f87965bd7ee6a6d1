package scan

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ardnew/exlog/pkg"
)

// maxLineSize bounds the length of a single log line.
const maxLineSize = 1 << 20

// Stdin is the path that selects standard input in [Open].
const Stdin = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Read returns an iterator over the records of r, one per line. Lines that
// cannot be parsed yield an error wrapping [pkg.ErrParseLine] and iteration
// continues; a read failure yields an error wrapping [pkg.ErrReadInput] and
// ends it. Blank lines are skipped.
func Read(r io.Reader) iter.Seq2[Record, error] {
	return ReadNamed(r, "")
}

// ReadNamed is [Read] with every record's Source set to name.
func ReadNamed(r io.Reader, name string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		number := 0

		for sc.Scan() {
			number++

			if len(bytes.TrimSpace(sc.Bytes())) == 0 {
				continue
			}

			rec, err := Parse(sc.Text())
			if err != nil {
				if !yield(Record{Source: name, Number: number}, err) {
					return
				}

				continue
			}

			rec.Source = name
			rec.Number = number

			if !yield(rec, nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield(Record{Source: name, Number: number}, pkg.ErrReadInput.Wrap(err))
		}
	}
}

// Collect reads every record of seq, discarding lines that are not log
// records. It stops at the first read failure.
func Collect(seq iter.Seq2[Record, error]) ([]Record, error) {
	var recs []Record

	for rec, err := range seq {
		if err != nil {
			if errors.Is(err, pkg.ErrReadInput) {
				return recs, err
			}

			continue
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

// Open opens the log at path for reading, or standard input if path is
// [Stdin]. Input compressed with gzip or zstd is decompressed transparently,
// recognized by its content rather than its file name.
//
// The error wraps [pkg.ErrReadInput].
func Open(path string) (io.ReadCloser, error) {
	var f io.ReadCloser = os.Stdin

	if path != Stdin {
		file, err := os.Open(path)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		f = file
	}

	rc, err := decompress(f)
	if err != nil {
		_ = f.Close()

		return nil, pkg.ErrReadInput.Wrapf("%s: %w", path, err)
	}

	return rc, nil
}

// decompress wraps rc in a decompressor matching its leading magic bytes.
func decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)

	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}

		return readCloser{Reader: zr, close: []io.Closer{zr, rc}}, nil

	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}

		return readCloser{Reader: zr, close: []io.Closer{zr.IOReadCloser(), rc}}, nil

	default:
		return readCloser{Reader: br, close: []io.Closer{rc}}, nil
	}
}

// readCloser closes a chain of readers, innermost last.
type readCloser struct {
	io.Reader

	close []io.Closer
}

func (r readCloser) Close() error {
	var errs pkg.Error

	for _, c := range r.close {
		if c == os.Stdin {
			continue
		}

		if err := c.Close(); err != nil {
			errs = errs.Wrap(err)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}
