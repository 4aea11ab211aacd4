package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashmark/internal/domain"
)

func load(t *testing.T, args ...string) (*Config, []string, error) {
	t.Helper()
	return Load(NewFlagSet("flashmark"), args)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, rest, err := load(t)
	require.NoError(t, err)
	assert.Empty(t, rest)

	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.InDelta(t, DefaultTemperature, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, int32(DefaultMaxTokens), cfg.LLM.MaxTokens)
	assert.False(t, cfg.LLM.Enabled())
	assert.Equal(t, DefaultReposDir, cfg.Import.ReposDir)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashmark.yaml")
	yaml := `
store:
  path: from-file.db
server:
  addr: 0.0.0.0:9000
  read_timeout: 3s
log:
  level: debug
llm:
  api_key: file-key
  temperature: 1.2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("FLASHMARK_SERVER__ADDR", "127.0.0.1:9100")
	t.Setenv("FLASHMARK_LLM__MAX_TOKENS", "512")
	t.Setenv("FLASHMARK_LOG__LEVEL", "warn")

	cfg, rest, err := load(t, "--config", path, "--log.level", "error", "import", "decks/")
	require.NoError(t, err)

	assert.Equal(t, []string{"import", "decks/"}, rest)
	assert.Equal(t, "from-file.db", cfg.Store.Path, "file beats flag default")
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Addr, "env beats file")
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "error", cfg.Log.Level, "explicit flag beats env")
	assert.Equal(t, int32(512), cfg.LLM.MaxTokens)
	assert.InDelta(t, 1.2, cfg.LLM.Temperature, 0.0001)
	assert.True(t, cfg.LLM.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{name: "bad level", args: []string{"--log.level", "trace"}, field: "log.level"},
		{name: "bad format", args: []string{"--log.format", "xml"}, field: "log.format"},
		{name: "bad addr", args: []string{"--server.addr", "localhost"}, field: "server.addr"},
		{name: "empty store", args: []string{"--store.path", ""}, field: "store.path"},
		{name: "temperature too high", args: []string{"--llm.temperature", "2.5"}, field: "llm.temperature"},
		{name: "zero timeout", args: []string{"--server.request_timeout", "0s"}, field: "server.request_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := load(t, tt.args...)
			require.Error(t, err)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, _, err := load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Help(t *testing.T) {
	_, _, err := load(t, "--help")
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
