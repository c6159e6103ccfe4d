package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	LogLevel string
	Database DatabaseConfig
	Pipeline PipelineConfig
	Timezone TimezoneConfig
	Weather  WeatherConfig
	SEO      SEOConfig
	Source   SourceConfig
}

// DatabaseConfig locates the embedded database
type DatabaseConfig struct {
	Path string
}

// PipelineConfig controls orchestration behavior
type PipelineConfig struct {
	Concurrency   int
	ClearOnUpdate bool
	EnabledTypes  []string
}

// TimezoneConfig configures the timezone-by-position API
type TimezoneConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// WeatherConfig configures the two-endpoint weather API
type WeatherConfig struct {
	Enabled       bool
	APIKey        string
	HistoricalURL string
	CurrentURL    string
	Timeout       time.Duration
}

// SEOConfig carries the operator-curated term lists merged into the
// built-in vocabulary, blacklist and synonym tables
type SEOConfig struct {
	ExtraBlacklist []string
	ExtraPatterns  []string
	ExtraBonus     []string
	ExtraSynonyms  map[string][]string
}

// SourceConfig configures where photo bytes come from
type SourceConfig struct {
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		Database: DatabaseConfig{
			Path: "photo-seo.db",
		},
		Pipeline: PipelineConfig{
			Concurrency:   4,
			ClearOnUpdate: false,
			EnabledTypes:  []string{"post"},
		},
		Timezone: TimezoneConfig{
			Enabled: true,
			BaseURL: "https://api.timezonedb.com/v2.1/get-time-zone",
			Timeout: 30 * time.Second,
		},
		Weather: WeatherConfig{
			Enabled:       true,
			HistoricalURL: "https://api.pirateweather.net/forecast",
			CurrentURL:    "https://api.pirateweather.net/forecast",
			Timeout:       30 * time.Second,
		},
		Source: SourceConfig{
			S3Region: "us-east-1",
			S3UseSSL: true,
		},
	}
}

// Load merges a config file (if present) and environment variables over the
// defaults. Environment variables use the PHOTOSEO_ prefix with underscores,
// e.g. PHOTOSEO_WEATHER_APIKEY.
func Load(path string) (*Config, error) {
	cfg := New()

	v := viper.New()
	v.SetEnvPrefix("photoseo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("photo-seo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.photo-seo")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
