package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDirDefaults(t *testing.T) {
	cfg, err := NewWithDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultStoreURL, cfg.StoreURL())
	assert.Equal(t, DefaultAnswerURL, cfg.AnswerURL())
	assert.Empty(t, cfg.Theme())
	assert.Empty(t, cfg.Email())
	assert.Empty(t, cfg.Password())
	assert.Contains(t, cfg.AllowedDomains(), "@lmi-ghana.com")
	assert.Contains(t, cfg.AllowedDomains(), "@gmail.com")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("HRCHAT_STORE_URL", "http://localhost:5000")
	t.Setenv("HRCHAT_ANSWER_URL", "http://localhost:8000/ask")
	t.Setenv("HRCHAT_EMAIL", "ama@lmi-ghana.com")

	cfg, err := NewWithDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.StoreURL())
	assert.Equal(t, "http://localhost:8000/ask", cfg.AnswerURL())
	assert.Equal(t, "ama@lmi-ghana.com", cfg.Email())
}

func TestPersistThemeWritesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewWithDir(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.PersistTheme("light"))
	assert.Equal(t, "light", cfg.Theme())

	// A fresh load sees the saved preference
	reloaded, err := NewWithDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", reloaded.Theme())
}

func TestPersistThemeCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "hrchat")
	cfg, err := NewWithDir(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.PersistTheme("dark"))
	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestConfigFileValuesLoad(t *testing.T) {
	dir := t.TempDir()
	content := "store_url: http://store.local\ntheme: plain\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	cfg, err := NewWithDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://store.local", cfg.StoreURL())
	assert.Equal(t, "plain", cfg.Theme())
	assert.Equal(t, "debug", cfg.LogLevel())
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultAnswerURL, cfg.AnswerURL())
}
