package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/exlog/cli/cmd"
	"github.com/ardnew/exlog/pkg"
)

// CLI is the top-level command-line interface for exlog.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Trace traceConfig `embed:"" group:"trace" prefix:"trace-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Scan cmd.Scan `cmd:"" help:"Extract and profile records of execution logs"`
	View cmd.View `cmd:"" help:"Browse the call tree of an execution log"`

	Pascal cmd.Pascal `cmd:"" default:"withargs" help:"Print Pascal's triangle with tracing (demo)"`
}

// Run executes the exlog CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, nil, args...)
}

// run is [Run] with the help and usage output redirected to stdout when it
// is not nil.
func run(
	ctx context.Context,
	exit func(code int),
	stdout io.Writer,
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Version(),
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
		cmd.CacheIdentifier:  cacheDir(),
		"minRows":            strconv.Itoa(cmd.MinRows),
		"maxRows":            strconv.Itoa(cmd.MaxRows),
		"scanFormats":        strings.Join(cmd.Formats(), ", "),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Trace.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on traceLevel/timeLayout handles those
	// flags during normal parsing, but this early scan also catches boolean
	// flags like --log-pretty.
	cli.Log.scan(args)

	options := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Trace.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configPath(baseConfig+".yaml")),
		kong.Configuration(loadTOML, configPath(baseConfig+".toml")),
		vars,
	}

	if stdout != nil {
		options = append(options, kong.Writers(stdout, stdout))
	}

	// Parse command line
	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Pretty which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	if err := cli.Trace.start(ctx); err != nil {
		return err
	}

	ctx = cmd.WithLogFile(ctx, cli.Log.File)

	if cli.Trace.Level.set {
		ctx = cmd.WithTraceLevelSet(ctx)
	}

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
