// Package config loads marvin configuration from flags, environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MARVIN_LLM_API_KEY.
const EnvPrefix = "MARVIN"

// Default configuration values.
const (
	DefaultListen          = ":8080"
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultProxyURL        = "http://localhost:8888/.netlify/functions/groq-proxy"
	DefaultLLMBaseURL      = "https://api.groq.com/openai/v1"
	DefaultLLMModel        = "llama-3.1-8b-instant"
	DefaultWeatherLocation = "Bangalore"
	DefaultModelPath       = "models/yolov8n.onnx"
)

// Config holds all configuration for the marvin commands.
type Config struct {
	Listen      string
	DataDir     string
	LogLevel    string
	LogFormat   string
	HTTPTimeout time.Duration
	SocksProxy  string

	LLM      LLMConfig
	Services ServicesConfig
	TTS      TTSConfig
	Camera   CameraConfig
}

// LLMConfig configures pro mode delegation.
type LLMConfig struct {
	// Mode is "proxy" (same-origin proxy endpoint) or "direct" (OpenAI-compatible API).
	Mode     string
	ProxyURL string
	BaseURL  string
	APIKey   string
	Model    string
}

// ServicesConfig holds the remote service endpoints.
type ServicesConfig struct {
	WikipediaURL    string
	WeatherURL      string
	WeatherLocation string
	NewsURL         string
	NewsAPIKey      string
	RSSURL          string
	RSSProxyURL     string
	TranslateURL    string
}

// TTSConfig selects the speech output.
type TTSConfig struct {
	// Provider is "log" (text only) or "openai".
	Provider string
	APIKey   string
	Voice    string
}

// CameraConfig configures the local webcam and object detector.
type CameraConfig struct {
	Device    int
	Width     int
	Height    int
	ModelPath string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("listen", DefaultListen)
	v.SetDefault("data_dir", filepath.Join(home, ".marvin"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("socks_proxy", "")

	v.SetDefault("llm.mode", "proxy")
	v.SetDefault("llm.proxy_url", DefaultProxyURL)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.api_key", "")

	v.SetDefault("services.wikipedia_url", "https://en.wikipedia.org/api/rest_v1/page/summary/")
	v.SetDefault("services.weather_url", "https://wttr.in/")
	v.SetDefault("services.weather_location", DefaultWeatherLocation)
	v.SetDefault("services.news_url", "https://newsdata.io/api/1/news")
	v.SetDefault("services.news_api_key", "")
	v.SetDefault("services.rss_url", "https://feeds.bbci.co.uk/news/rss.xml")
	v.SetDefault("services.rss_proxy_url", "https://api.allorigins.win/raw?url=")
	v.SetDefault("services.translate_url", "https://api.mymemory.translated.net/get")

	v.SetDefault("tts.provider", "log")
	v.SetDefault("tts.voice", "onyx")
	v.SetDefault("tts.api_key", "")

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.model_path", DefaultModelPath)
}

// NewViper returns a viper instance with defaults, env overrides and an optional
// marvin.yaml from the working directory or the data dir. A .env file is loaded first.
func NewViper(envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("marvin")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(v.GetString("data_dir"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// FromViper materializes a Config from v.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Listen:      v.GetString("listen"),
		DataDir:     v.GetString("data_dir"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		SocksProxy:  v.GetString("socks_proxy"),
		LLM: LLMConfig{
			Mode:     v.GetString("llm.mode"),
			ProxyURL: v.GetString("llm.proxy_url"),
			BaseURL:  v.GetString("llm.base_url"),
			APIKey:   v.GetString("llm.api_key"),
			Model:    v.GetString("llm.model"),
		},
		Services: ServicesConfig{
			WikipediaURL:    v.GetString("services.wikipedia_url"),
			WeatherURL:      v.GetString("services.weather_url"),
			WeatherLocation: v.GetString("services.weather_location"),
			NewsURL:         v.GetString("services.news_url"),
			NewsAPIKey:      v.GetString("services.news_api_key"),
			RSSURL:          v.GetString("services.rss_url"),
			RSSProxyURL:     v.GetString("services.rss_proxy_url"),
			TranslateURL:    v.GetString("services.translate_url"),
		},
		TTS: TTSConfig{
			Provider: v.GetString("tts.provider"),
			APIKey:   v.GetString("tts.api_key"),
			Voice:    v.GetString("tts.voice"),
		},
		Camera: CameraConfig{
			Device:    v.GetInt("camera.device"),
			Width:     v.GetInt("camera.width"),
			Height:    v.GetInt("camera.height"),
			ModelPath: v.GetString("camera.model_path"),
		},
	}

	// Fall back to the conventional provider variables.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = firstEnv("GROQ_API_KEY", "OPENAI_API_KEY")
	}
	if cfg.TTS.APIKey == "" {
		cfg.TTS.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "HTTPTimeout", Message: "http_timeout must be positive"}
	}
	switch c.LLM.Mode {
	case "proxy":
		if c.LLM.ProxyURL == "" {
			return &ConfigError{Field: "LLM.ProxyURL", Message: "llm.proxy_url is required in proxy mode"}
		}
	case "direct":
		if c.LLM.APIKey == "" {
			return &ConfigError{Field: "LLM.APIKey", Message: "MARVIN_LLM_API_KEY (or GROQ_API_KEY) is required in direct mode"}
		}
	default:
		return &ConfigError{Field: "LLM.Mode", Message: fmt.Sprintf("unknown llm.mode %q (want proxy or direct)", c.LLM.Mode)}
	}
	switch c.TTS.Provider {
	case "log":
	case "openai":
		if c.TTS.APIKey == "" {
			return &ConfigError{Field: "TTS.APIKey", Message: "OPENAI_API_KEY is required for openai speech output"}
		}
	default:
		return &ConfigError{Field: "TTS.Provider", Message: fmt.Sprintf("unknown tts.provider %q (want log or openai)", c.TTS.Provider)}
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return &ConfigError{Field: "Camera", Message: "camera width and height must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
