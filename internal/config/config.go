// Package config loads the reactkit command configuration from flags,
// REACTKIT_* environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skosovsky/reactkit"
)

// EnvPrefix is prepended to environment variable names, e.g. REACTKIT_LOG_LEVEL.
const EnvPrefix = "REACTKIT"

// Approval policies for tools that require approval.
const (
	ApproveAlways = "always"
	ApproveNever  = "never"
	ApproveAsk    = "ask"
)

// Config is the resolved command configuration.
type Config struct {
	// Input is the file holding the model response; empty or "-" reads stdin.
	Input string `mapstructure:"input"`
	// Catalog prints the system prompt instead of dispatching a response.
	Catalog bool `mapstructure:"catalog"`
	// Approve is one of ApproveAlways, ApproveNever or ApproveAsk.
	Approve string `mapstructure:"approve"`
	// RequireApproval names the built-in tools gated by the approval policy.
	RequireApproval []string      `mapstructure:"require_approval"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxSteps        uint64        `mapstructure:"max_steps"`
	// Answer is the OutputType final answers are decoded to.
	Answer string    `mapstructure:"answer"`
	Log    LogConfig `mapstructure:"log"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// ErrHelp is returned by Load when -h or --help was given.
var ErrHelp = pflag.ErrHelp

// Load parses args (without the program name) and merges them over the
// environment, the config file named by --config and the defaults.
// Precedence: flags, then environment, then config file, then defaults.
func Load(args []string, stderr io.Writer) (*Config, error) {
	fs := pflag.NewFlagSet("reactkit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("input", "", `file with the model response ("-" or empty reads stdin)`)
	fs.Bool("catalog", false, "print the system prompt for the built-in tools and exit")
	fs.String("approve", ApproveAsk, "approval policy for tools that need it: always, never or ask")
	fs.StringSlice("require-approval", nil, "tools that need approval before they run (comma separated)")
	fs.Duration("timeout", 0, "per-invocation timeout (0 disables)")
	fs.Uint64("max-steps", 100_000, "calculator step limit (0 disables)")
	fs.String("answer", string(reactkit.OutputString), "type final answers are decoded to")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("input", "")
	v.SetDefault("catalog", false)
	v.SetDefault("approve", ApproveAsk)
	v.SetDefault("require_approval", []string{})
	v.SetDefault("timeout", "0s")
	v.SetDefault("max_steps", 100_000)
	v.SetDefault("answer", string(reactkit.OutputString))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"input":            "input",
		"catalog":          "catalog",
		"approve":          "approve",
		"require_approval": "require-approval",
		"timeout":          "timeout",
		"max_steps":        "max-steps",
		"answer":           "answer",
		"log.level":        "log-level",
		"log.format":       "log-format",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Approve {
	case ApproveAlways, ApproveNever, ApproveAsk:
	default:
		errs = append(errs, fmt.Errorf("approve: unknown policy %q", c.Approve))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !knownOutputType(reactkit.OutputType(c.Answer)) {
		errs = append(errs, fmt.Errorf("answer: unknown output type %q", c.Answer))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout: must not be negative"))
	}
	return errors.Join(errs...)
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c LogConfig) level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Level))
	return level, err
}

func knownOutputType(t reactkit.OutputType) bool {
	switch t {
	case reactkit.OutputString, reactkit.OutputInteger, reactkit.OutputFloat, reactkit.OutputBinary,
		reactkit.OutputBoolean, reactkit.OutputDate, reactkit.OutputTimestamp,
		reactkit.OutputStringArray, reactkit.OutputIntegerArray, reactkit.OutputFloatArray:
		return true
	}
	return false
}
