package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err, "missing config file should not be an error")

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 3, cfg.Scrape.MaxAttempts)
	assert.Equal(t, "https://novelbin.com", cfg.Scrape.ListSite.BaseURL)
	assert.Equal(t, "https://novelfire.net", cfg.Scrape.ContentSite.BaseURL)
	assert.False(t, cfg.Scrape.ContentSite.VerifyTLS)
	assert.Equal(t, "en-US-ChristopherNeural", cfg.TTS.DefaultVoice)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
}

func TestLoad_FileValues(t *testing.T) {
	content := `
server:
  host: 127.0.0.1
  port: 9000
scrape:
  max_attempts: 5
  timeout: 10s
  list_site:
    base_url: https://example.com
    verify_tls: true
library:
  doc_id: abc123
log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 5, cfg.Scrape.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout.Std())
	assert.Equal(t, "https://example.com", cfg.Scrape.ListSite.BaseURL)
	assert.True(t, cfg.Scrape.ListSite.VerifyTLS)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "https://novelfire.net", cfg.Scrape.ContentSite.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t,
		"https://docs.google.com/document/d/abc123/export?format=txt",
		cfg.NovelsExportURL())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	content := `
server:
  port: 9000
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "9999")
	t.Setenv("SHEET_ID", "env-doc")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port, "env should win over file")
	assert.Equal(t, "env-doc", cfg.Library.DocID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "zero attempts",
			content: "scrape:\n  max_attempts: 0\n",
		},
		{
			name:    "bad port",
			content: "server:\n  port: 700000\n",
		},
		{
			name:    "empty list site",
			content: "scrape:\n  list_site:\n    base_url: \"\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestNovelsExportURL_EmptyWithoutDocID(t *testing.T) {
	assert.Empty(t, Default().NovelsExportURL())
}
