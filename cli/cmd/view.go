package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/exlog/cli/cmd/view"
)

// View browses the call tree of execution logs in the terminal.
type View struct {
	Files []string `arg:"" help:"Execution logs, optionally gzip or zstd compressed" name:"file" type:"existingfile"`
}

// Run executes the view command.
func (v *View) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources := uniqueSources(v.Files)
	if len(sources) == 0 {
		return ErrNoSource
	}

	records, err := readAll(ctx, sources, nil)
	if err != nil {
		return err
	}

	if err := view.Run(ctx, records); err != nil {
		return ErrScanLog.With(slog.Any("files", sources)).Wrap(err)
	}

	return nil
}
