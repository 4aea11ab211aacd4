package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/flashmark/internal/validate"
)

// EnvPrefix prefixes every environment override. Nested keys are joined
// with a double underscore: FLASHMARK_SERVER__ADDR sets server.addr.
const EnvPrefix = "FLASHMARK_"

// Defaults.
const (
	DefaultStorePath   = "flashmark.db"
	DefaultAddr        = "127.0.0.1:8080"
	DefaultModel       = "gemini-2.0-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultReposDir    = "repos"
)

// NewFlagSet declares every configuration flag with its default.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.String("config", "", "path to a YAML config file")
	fs.String("store.path", DefaultStorePath, "SQLite database file")
	fs.String("server.addr", DefaultAddr, "HTTP listen address")
	fs.Duration("server.read_timeout", 10*time.Second, "HTTP read timeout")
	fs.Duration("server.write_timeout", 90*time.Second, "HTTP write timeout")
	fs.Duration("server.request_timeout", 60*time.Second, "per-request handler timeout")
	fs.String("log.level", "info", "log level: debug, info, warn or error")
	fs.String("log.format", "text", "log format: json or text")
	fs.String("llm.api_key", "", "completion API key; generation is disabled when empty")
	fs.String("llm.model", DefaultModel, "completion model")
	fs.Float32("llm.temperature", DefaultTemperature, "sampling temperature")
	fs.Int32("llm.max_tokens", DefaultMaxTokens, "maximum output tokens")
	fs.String("import.repos_dir", DefaultReposDir, "where git import sources are cloned")
	return fs
}

// Load parses args against fs and layers configuration from, lowest to
// highest precedence: flag defaults, the --config YAML file, FLASHMARK_
// environment variables, and flags set on the command line. It returns the
// validated config and the remaining positional arguments.
func Load(fs *pflag.FlagSet, args []string) (*Config, []string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Unchanged flags only fill keys no earlier layer set.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, fs.Args(), nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
