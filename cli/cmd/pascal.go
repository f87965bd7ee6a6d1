package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ardnew/exlog/log"
	"github.com/ardnew/exlog/pkg"
)

// Row limits of the Pascal demo.
const (
	MinRows = 2
	MaxRows = 10
)

// PascalTraceLevel is the trace level of the Pascal demo unless one is
// configured. It is deep enough to trace every row of the largest triangle.
const PascalTraceLevel = 15

// Pascal prints the first rows of Pascal's triangle, tracing every function
// and one block of interest into the execution log.
type Pascal struct {
	Rows int `help:"Number of rows to generate (${minRows}-${maxRows}); prompt when 0" placeholder:"N" short:"n"`

	stdin  io.Reader
	stdout io.Writer
}

// Run executes the pascal command.
func (p *Pascal) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdin, stdout := p.stdin, p.stdout
	if stdin == nil {
		stdin = os.Stdin
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	l := log.FromContext(ctx)
	if !traceLevelSet(ctx) {
		l = l.Wrap(log.WithTraceLevel(PascalTraceLevel))
	}

	path, err := l.Open(logFileFrom(ctx))
	if err != nil {
		return ErrDemo.With(slog.String("log", path)).Wrap(err)
	}

	defer func() { _ = l.Close() }()

	slog.DebugContext(ctx, "execution log opened", slog.String("path", path))

	// log the otherwise anonymous "main"
	l.Enter("main")

	rows, err := p.rows(l, stdin, stdout)
	if err != nil {
		l.Leave("main")

		return ErrDemo.With(slog.String("log", path)).Wrap(err)
	}

	l.Notef("Generating first %d rows of Pascal's Triangle", rows)

	// The first row is a single 1 centered in 2*rows+1 cells.
	row := make([]int, 2*rows+1)
	row[rows] = 1

	displayRow(l, stdout, rows, row)
	generateNextRow(l, stdout, rows, 2, row)

	l.Leave("main")

	_, err = fmt.Fprintf(stdout, "\nLogging information saved in '%s'\n", path)

	return err
}

// rows returns the requested number of rows, prompting on stdin when none
// was given. Invalid input is logged as a fatal message.
func (p *Pascal) rows(l log.Logger, stdin io.Reader, stdout io.Writer) (int, error) {
	answer := strconv.Itoa(p.Rows)

	if p.Rows == 0 {
		fmt.Fprintf(stdout, "Number of rows to generate (between %d and %d): ", MinRows, MaxRows)

		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, pkg.ErrReadInput.Wrap(err)
		}

		answer = strings.TrimSpace(line)
	}

	n, err := strconv.Atoi(answer)
	if answer == "" || err != nil {
		l.Fatal(fmt.Sprintf("cannot interpret '%s' as a number", answer))

		return 0, pkg.ErrInvalidRows.Wrapf("%q", answer)
	}

	if n < MinRows || n > MaxRows {
		l.Fatal("PEBKAC detected (Problem Exists Between Keyboard And Chair)")

		return 0, pkg.ErrInvalidRows.Wrapf("%d not in [%d, %d]", n, MinRows, MaxRows)
	}

	return n, nil
}

// cell renders one entry of a row; zeros are blank.
var cell pkg.Render[int] = func(n int) string {
	if n == 0 {
		return "    "
	}

	return fmt.Sprintf(" %3d", n)
}

func displayRow(l log.Logger, w io.Writer, total int, row []int) {
	l.Enter("display_row")
	defer l.Leave("display_row")

	fmt.Fprintln(w, cell.Join("", row[:2*total+1]...))
}

func generateNextRow(l log.Logger, w io.Writer, total, number int, row []int) {
	l.Enter("generate_next_row", "Curr Row Num: "+strconv.Itoa(number))
	defer l.Leave("generate_next_row")

	// tracing a block of code
	l.Enter("section of interest")

	next := make([]int, 2*total+1)
	for c := 1; c < 2*total; c++ {
		next[c] = row[c-1] + row[c+1]
	}

	l.Leave("section of interest")

	displayRow(l, w, total, next)

	if number < total {
		generateNextRow(l, w, total, number+1, next)
	}
}
