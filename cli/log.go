package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/exlog/cli/cmd"
	"github.com/ardnew/exlog/log"
)

// traceLevel is a custom type that configures the trace level limit as a
// side effect of parsing via encoding.TextUnmarshaler. The zero value is
// unset, which leaves each command to choose its own limit.
type traceLevel struct {
	n   int
	set bool
}

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --trace-level flag, this method is called, allowing us
// to configure the logger early enough to affect messages during parsing.
func (l *traceLevel) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}

	*l = traceLevel{n: n, set: true}
	log.Config(log.WithTraceLevel(n))

	return nil
}

// ConfigValue returns the level written by the init command, or nil if it
// was never set.
func (l traceLevel) ConfigValue() any {
	if !l.set {
		return nil
	}

	return l.n
}

// timeLayout is a custom type that configures the timestamp layout as a side
// effect of parsing via encoding.TextUnmarshaler.
type timeLayout string

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *timeLayout) UnmarshalText(text []byte) error {
	*t = timeLayout(text)
	log.Config(log.WithTimeLayout(string(*t)))

	return nil
}

type logConfig struct {
	File   string     `default:""        help:"Write the execution log to this file (default <program>_<YYYYMMDD>.log)." placeholder:"PATH" type:"path"`
	Time   timeLayout `default:"default" help:"Set timestamp format (default, RFC3339, Kitchen, ...)."`
	Pretty bool       `default:"true"    help:"Colorize line tags on terminals."                                          negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithTimeLayout(string(f.Time)),
		log.WithPretty(f.Pretty),
	)

	// Route the operational diagnostics of every package through the
	// execution log.
	slog.SetDefault(slog.New(log.Default().Handler(slog.LevelInfo)))

	slog.DebugContext(ctx, "logger initialized",
		slog.String("file", f.File),
		slog.String("time", string(f.Time)),
		slog.Bool("pretty", f.Pretty),
	)
}

type traceConfig struct {
	Level  traceLevel `help:"Deepest nesting level at which trace lines are written (default ${traceLevel}, pascal ${pascalTraceLevel})." placeholder:"N"`
	Filter string     `default:""        help:"Only trace frames for which this expression is true (variables: frame, depth)." placeholder:"EXPR"`
}

func (*traceConfig) vars() kong.Vars {
	return kong.Vars{
		"traceLevel":       strconv.Itoa(log.DefaultTraceLevel),
		"pascalTraceLevel": strconv.Itoa(cmd.PascalTraceLevel),
	}
}

func (*traceConfig) group() kong.Group {
	var group kong.Group

	group.Key = "trace"
	group.Title = "Tracing options"

	return group
}

// start applies the parsed trace options. A filter that fails to compile
// is returned as an error before any command runs.
func (f *traceConfig) start(ctx context.Context) error {
	var opts []log.Option

	if f.Level.set {
		opts = append(opts, log.WithTraceLevel(f.Level.n))
	}

	if f.Filter != "" {
		filter, err := log.CompileFilter(f.Filter)
		if err != nil {
			return err
		}

		opts = append(opts, log.WithFilter(filter))
	}

	log.Config(opts...)

	slog.DebugContext(ctx, "tracer initialized",
		slog.Any("level", f.Level.ConfigValue()),
		slog.String("filter", f.Filter),
	)

	return nil
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While traceLevel and timeLayout implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, boolean flags
// like Pretty don't go through that interface. This pre-scan ensures all logger
// flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		// Non-boolean flag: consume next arg as value if not assigned
		next := func() string {
			if !assigned && i+1 < len(args) && len(args[i+1]) > 0 &&
				args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "--log-time":
			_ = f.Time.UnmarshalText([]byte(next()))

		case "--trace-level":
			var level traceLevel

			_ = level.UnmarshalText([]byte(next()))

		case "--log-pretty", "--no-log-pretty":
			// Boolean flag: only parse value if explicitly assigned with =
			v := true

			if assigned {
				b, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				v = b
			}

			if name == "--no-log-pretty" {
				v = !v
			}

			f.Pretty = v
			log.Config(log.WithPretty(v))
		}
	}
}
