// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" decode cleanly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SiteConfig describes one target novel site. VerifyTLS is a per-site
// decision: some targets present certificates that fail verification, and the
// caller (not the fetcher) owns that toggle.
type SiteConfig struct {
	BaseURL   string `yaml:"base_url"`
	VerifyTLS bool   `yaml:"verify_tls"`
}

// ScrapeConfig controls the extraction engine.
type ScrapeConfig struct {
	MaxAttempts int        `yaml:"max_attempts"`
	Timeout     Duration   `yaml:"timeout"`
	ListSite    SiteConfig `yaml:"list_site"`
	ContentSite SiteConfig `yaml:"content_site"`
}

// LibraryConfig points at the document export that lists novel names.
type LibraryConfig struct {
	DocID string `yaml:"doc_id"`
}

// TTSConfig holds the pass-through synthesis endpoint and default voice.
type TTSConfig struct {
	Endpoint     string `yaml:"endpoint"`
	DefaultVoice string `yaml:"default_voice"`
}

// CORSConfig mirrors the browser-facing CORS settings.
type CORSConfig struct {
	Origins []string `yaml:"origins"`
	Methods []string `yaml:"methods"`
	Headers []string `yaml:"headers"`
}

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Scrape   ScrapeConfig  `yaml:"scrape"`
	Library  LibraryConfig `yaml:"library"`
	TTS      TTSConfig     `yaml:"tts"`
	CORS     CORSConfig    `yaml:"cors"`
	LogLevel string        `yaml:"log_level"`
}

// Default returns the built-in configuration, matching the two known target
// sites.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Scrape: ScrapeConfig{
			MaxAttempts: 3,
			Timeout:     Duration(30 * time.Second),
			ListSite: SiteConfig{
				BaseURL:   "https://novelbin.com",
				VerifyTLS: false,
			},
			ContentSite: SiteConfig{
				BaseURL:   "https://novelfire.net",
				VerifyTLS: false,
			},
		},
		TTS: TTSConfig{
			DefaultVoice: "en-US-ChristopherNeural",
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
			Methods: []string{"*"},
			Headers: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads configuration from path. A missing file is not an error; the
// defaults are returned. Environment variables override file values either
// way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		c.Library.DocID = v
	}
	if v := os.Getenv("DEFAULT_VOICE"); v != "" {
		c.TTS.DefaultVoice = v
	}
	if v := os.Getenv("TTS_ENDPOINT"); v != "" {
		c.TTS.Endpoint = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORS.Origins = splitList(v)
	}
	if v := os.Getenv("CORS_METHODS"); v != "" {
		c.CORS.Methods = splitList(v)
	}
	if v := os.Getenv("CORS_HEADERS"); v != "" {
		c.CORS.Headers = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Scrape.MaxAttempts < 1 {
		return fmt.Errorf("scrape max_attempts must be at least 1, got %d", c.Scrape.MaxAttempts)
	}
	if c.Scrape.ListSite.BaseURL == "" || c.Scrape.ContentSite.BaseURL == "" {
		return fmt.Errorf("scrape site base URLs must not be empty")
	}
	return nil
}

// Addr returns the host:port string for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NovelsExportURL returns the plain-text export URL for the configured
// document, or "" when no document is configured.
func (c *Config) NovelsExportURL() string {
	if c.Library.DocID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=txt", c.Library.DocID)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
