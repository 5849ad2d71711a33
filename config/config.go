package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig holds input/output locations
type DataConfig struct {
	DomesticPath  string `mapstructure:"domestic_path"`
	ReferencePath string `mapstructure:"reference_path"`
	NoticesPath   string `mapstructure:"notices_path"`
	OutputDir     string `mapstructure:"output_dir"`
}

// MatchingConfig holds the cross-validation knobs. The tolerance and year
// window defaults are the fixed matching policy; they are surfaced here so
// experiments do not require a rebuild.
type MatchingConfig struct {
	TolerancePct        float64 `mapstructure:"tolerance_pct"`
	ToleranceAbs        float64 `mapstructure:"tolerance_abs"`
	YearWindow          int     `mapstructure:"year_window"`
	EUThreshold         float64 `mapstructure:"eu_threshold"`
	MinGroupSize        int     `mapstructure:"min_group_size"`
	UseSaraThresholds   bool    `mapstructure:"use_sara_thresholds"`
	EnableBuyerFallback bool    `mapstructure:"enable_buyer_fallback"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tedcross/")

	v.SetEnvPrefix("TEDCROSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Data defaults
	v.SetDefault("data.output_dir", "data/crossval")

	// Matching defaults: 10% or 5000 euros tolerance, ±1 year, flat
	// 140k threshold, groups of 3 before percentages
	v.SetDefault("matching.tolerance_pct", 0.10)
	v.SetDefault("matching.tolerance_abs", 5000.0)
	v.SetDefault("matching.year_window", 1)
	v.SetDefault("matching.eu_threshold", 140000.0)
	v.SetDefault("matching.min_group_size", 3)
	v.SetDefault("matching.use_sara_thresholds", false)
	v.SetDefault("matching.enable_buyer_fallback", false)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_second", 10.0)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.TolerancePct <= 0 || config.Matching.TolerancePct > 1 {
		return fmt.Errorf("matching tolerance_pct must be in (0, 1], got: %v", config.Matching.TolerancePct)
	}
	if config.Matching.ToleranceAbs < 0 {
		return fmt.Errorf("matching tolerance_abs must be >= 0, got: %v", config.Matching.ToleranceAbs)
	}
	if config.Matching.EUThreshold <= 0 {
		return fmt.Errorf("matching eu_threshold must be > 0, got: %v", config.Matching.EUThreshold)
	}
	if config.Matching.YearWindow < 0 || config.Matching.YearWindow > 5 {
		return fmt.Errorf("matching year_window must be in [0, 5], got: %d", config.Matching.YearWindow)
	}
	if config.RateLimit.PerSecond <= 0 {
		return fmt.Errorf("ratelimit per_second must be > 0, got: %v", config.RateLimit.PerSecond)
	}
	return nil
}
