package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := FromViper(v)

	if cfg.Listen != DefaultListen {
		t.Errorf("Listen: got %q, want %q", cfg.Listen, DefaultListen)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout: got %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.Services.WeatherLocation != "Bangalore" {
		t.Errorf("WeatherLocation: got %q", cfg.Services.WeatherLocation)
	}
	if cfg.LLM.Mode != "proxy" {
		t.Errorf("LLM.Mode: got %q, want proxy", cfg.LLM.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARVIN_LISTEN", ":9999")
	t.Setenv("MARVIN_LLM_MODE", "direct")
	t.Setenv("MARVIN_LLM_API_KEY", "k")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg := FromViper(v)

	if cfg.Listen != ":9999" {
		t.Errorf("Listen: got %q, want :9999", cfg.Listen)
	}
	if cfg.LLM.Mode != "direct" || cfg.LLM.APIKey != "k" {
		t.Errorf("LLM: got %+v", cfg.LLM)
	}
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MARVIN_SERVICES_WEATHER_LOCATION=Mysore\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("MARVIN_SERVICES_WEATHER_LOCATION") })

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	if got := FromViper(v).Services.WeatherLocation; got != "Mysore" {
		t.Errorf("WeatherLocation: got %q, want Mysore", got)
	}
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		v := viper.New()
		SetDefaults(v)
		return FromViper(v)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad llm mode", func(c *Config) { c.LLM.Mode = "carrier-pigeon" }, "LLM.Mode"},
		{"direct without key", func(c *Config) { c.LLM.Mode = "direct"; c.LLM.APIKey = "" }, "LLM.APIKey"},
		{"openai tts without key", func(c *Config) { c.TTS.Provider = "openai"; c.TTS.APIKey = "" }, "TTS.APIKey"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTPTimeout"},
		{"bad camera", func(c *Config) { c.Camera.Width = 0 }, "Camera"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("Field: got %q, want %q", cerr.Field, tc.field)
			}
		})
	}
}
