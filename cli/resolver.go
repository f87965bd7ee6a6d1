package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] that reads flag values from a
// YAML mapping. It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadYAML, "/path/to/config.yaml")
//
// Example config file:
//
//	trace_level: 3
//	log_time: RFC3339
//	log_pretty: false
//
// Flag names with hyphens (e.g., "trace-level") may be written with
// underscores. Nested mappings are flattened by joining keys with hyphens,
// so the example above can also be written:
//
//	trace:
//	  level: 3
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var m map[string]any

	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if err == io.EOF {
			return config{}, nil
		}

		return nil, err
	}

	return makeConfig(m), nil
}

// loadTOML is a [kong.ConfigurationLoader] that reads flag values from a
// TOML document. Tables are flattened the same way as [loadYAML] mappings:
//
//	[trace]
//	level = 3
//	filter = 'frame != "section of interest"'
func loadTOML(r io.Reader) (kong.Resolver, error) {
	var m map[string]any

	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}

	return makeConfig(m), nil
}

// config implements [kong.Resolver] for decoded configuration files.
type config map[string]any

// makeConfig flattens m into a config whose keys are flag names.
func makeConfig(m map[string]any) config {
	c := config{}
	c.flatten("", m)

	return c
}

func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		key = strings.ReplaceAll(key, "_", "-")

		switch v := value.(type) {
		case map[string]any:
			r.flatten(key, v)

		default:
			r[key] = native(v)
		}
	}
}

// native converts decoded values into the forms Kong parses.
// Kong requires numbers as strings for parsing.
func native(value any) any {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)

	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		s := make([]string, len(v))
		for i, e := range v {
			s[i] = fmt.Sprint(native(e))
		}

		return strings.Join(s, ",")

	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
