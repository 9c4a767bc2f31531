package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokentrace/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvDocument, EnvLogLevel, EnvHistory, EnvMetricsAddr, "TOKENTRACE_LOG_PRETTY", "XDG_CONFIG_HOME"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.ProgressInterval)
	assert.Equal(t, "Inter", cfg.Fonts.Primary[0].Family)
	assert.Equal(t, "Roboto", cfg.Fonts.Fallback[0].Family)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
document = "~/designs/app.json"
log_level = "debug"
progress_interval = 25

[report]
width = 100

[[fonts.primary]]
family = "Geist"
style = "Medium"
`), 0644))
	t.Setenv(EnvConfig, path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "~/designs/app.json", cfg.Document)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25, cfg.ProgressInterval)
	assert.Equal(t, 100, cfg.Report.Width)
	assert.Equal(t, []domain.FontName{{Family: "Geist", Style: "Medium"}}, cfg.Fonts.Primary)
	assert.Equal(t, Default().Fonts.Fallback, cfg.Fonts.Fallback)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`document = "from-file.json"`), 0644))
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDocument, "from-env.json")
	t.Setenv(EnvHistory, "/tmp/h.db")
	t.Setenv(EnvMetricsAddr, ":9090")
	t.Setenv("TOKENTRACE_LOG_PRETTY", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Document)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("TOKENTRACE_DOCUMENT=dotenv.yaml\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(EnvDocument) })
	os.Unsetenv(EnvDocument)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "dotenv.yaml", cfg.Document)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`progress_interval = "often"`), 0644))
	t.Setenv(EnvConfig, path)

	_, err := Load()

	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_InvalidPretty(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKENTRACE_LOG_PRETTY", "sometimes")

	_, err := Load()

	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	assert.Equal(t, "/etc/xdg/tokentrace/config.toml", Path())

	t.Setenv(EnvConfig, "/custom.toml")
	assert.Equal(t, "/custom.toml", Path())
}
