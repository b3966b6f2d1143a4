package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.Stealth)
	assert.Equal(t, time.Second, cfg.Settle)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(lookupMap(map[string]string{
		EnvURL:           "https://survey.example.com/vm/abc.aspx",
		EnvBrowserBin:    "/usr/bin/chromium",
		EnvControlURL:    "ws://127.0.0.1:9222",
		EnvHeadless:      "false",
		EnvStealth:       "0",
		EnvTimeout:       "45",
		EnvSettle:        "500ms",
		EnvScreenshotDir: "shots",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://survey.example.com/vm/abc.aspx", cfg.URL)
	assert.Equal(t, "/usr/bin/chromium", cfg.BrowserBin)
	assert.Equal(t, "ws://127.0.0.1:9222", cfg.ControlURL)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.Stealth)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Settle)
	assert.Equal(t, "shots", cfg.ScreenshotDir)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	_, err := FromEnv(lookupMap(map[string]string{
		EnvHeadless: "maybe",
		EnvTimeout:  "-3",
		EnvSettle:   "soon",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, EnvHeadless)
	assert.ErrorContains(t, err, EnvTimeout)
	assert.ErrorContains(t, err, EnvSettle)
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SURVEY_URL=http://from-dotenv.test/\nSURVEY_SETTLE=3\n"), 0o600))

	// godotenv never overrides variables that are already set; start clean.
	t.Setenv(EnvURL, "")
	os.Unsetenv(EnvURL)
	t.Setenv(EnvSettle, "")
	os.Unsetenv(EnvSettle)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv.test/", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Settle)
}

func TestLoad_NamedFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "missing.env")
}

func TestLoad_DefaultFileMayBeAbsent(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvSettle, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettle, cfg.Settle)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SURVEY_URL=http://from-dotenv.test/\n"), 0o600))
	t.Setenv(EnvURL, "http://from-env.test/")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env.test/", cfg.URL)
}
