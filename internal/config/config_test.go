package config_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/reactkit/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.ApproveAsk, cfg.Approve)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, uint64(100_000), cfg.MaxSteps)
	assert.Equal(t, "string", cfg.Answer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Catalog)
	assert.Empty(t, cfg.RequireApproval)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := config.Load([]string{
		"--approve", "never",
		"--timeout", "2s",
		"--log-level", "debug",
		"--log-format", "json",
		"--answer", "integer",
		"--catalog",
		"--require-approval", "Calculator,Current Date",
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.ApproveNever, cfg.Approve)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "integer", cfg.Answer)
	assert.True(t, cfg.Catalog)
	assert.Equal(t, []string{"Calculator", "Current Date"}, cfg.RequireApproval)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("REACTKIT_APPROVE", "always")
	t.Setenv("REACTKIT_LOG_LEVEL", "warn")

	cfg, err := config.Load(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.ApproveAlways, cfg.Approve)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Flags win over the environment.
	cfg, err = config.Load([]string{"--approve", "never"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.ApproveNever, cfg.Approve)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactkit.yaml")
	content := "approve: never\ntimeout: 5s\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load([]string{"--config", path}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, config.ApproveNever, cfg.Approve)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard)
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"approve", []string{"--approve", "sometimes"}, "approve"},
		{"log format", []string{"--log-format", "xml"}, "log.format"},
		{"log level", []string{"--log-level", "loud"}, "log.level"},
		{"answer", []string{"--answer", "colour"}, "answer"},
		{"timeout", []string{"--timeout=-1s"}, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.args, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	_, err := config.Load([]string{"--nope"}, &stderr)
	require.Error(t, err)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "tool", "Calculator")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"tool":"Calculator"`)
}
