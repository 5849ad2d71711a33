package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("TEDCROSS_SERVER_PORT")
		os.Unsetenv("TEDCROSS_SERVER_ENVIRONMENT")
		os.Unsetenv("TEDCROSS_DATA_DOMESTIC_PATH")
		os.Unsetenv("TEDCROSS_DATA_REFERENCE_PATH")
		os.Unsetenv("TEDCROSS_DATA_OUTPUT_DIR")
		os.Unsetenv("TEDCROSS_MATCHING_TOLERANCE_PCT")
		os.Unsetenv("TEDCROSS_MATCHING_TOLERANCE_ABS")
		os.Unsetenv("TEDCROSS_MATCHING_YEAR_WINDOW")
		os.Unsetenv("TEDCROSS_MATCHING_EU_THRESHOLD")
		os.Unsetenv("TEDCROSS_MATCHING_USE_SARA_THRESHOLDS")
		os.Unsetenv("TEDCROSS_RATELIMIT_PER_SECOND")
		os.Unsetenv("TEDCROSS_RATELIMIT_BURST")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Matching.TolerancePct != 0.10 {
			t.Errorf("Matching.TolerancePct = %v, want 0.10", cfg.Matching.TolerancePct)
		}
		if cfg.Matching.ToleranceAbs != 5000 {
			t.Errorf("Matching.ToleranceAbs = %v, want 5000", cfg.Matching.ToleranceAbs)
		}
		if cfg.Matching.YearWindow != 1 {
			t.Errorf("Matching.YearWindow = %d, want 1", cfg.Matching.YearWindow)
		}
		if cfg.Matching.EUThreshold != 140000 {
			t.Errorf("Matching.EUThreshold = %v, want 140000", cfg.Matching.EUThreshold)
		}
		if cfg.Matching.MinGroupSize != 3 {
			t.Errorf("Matching.MinGroupSize = %d, want 3", cfg.Matching.MinGroupSize)
		}
		if cfg.Matching.UseSaraThresholds {
			t.Error("Matching.UseSaraThresholds = true, want false by default")
		}
		if cfg.Data.OutputDir != "data/crossval" {
			t.Errorf("Data.OutputDir = %s, want data/crossval", cfg.Data.OutputDir)
		}
		if cfg.RateLimit.PerSecond != 10 {
			t.Errorf("RateLimit.PerSecond = %v, want 10", cfg.RateLimit.PerSecond)
		}
		if cfg.RateLimit.Burst != 20 {
			t.Errorf("RateLimit.Burst = %d, want 20", cfg.RateLimit.Burst)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TEDCROSS_SERVER_PORT", "9090")
		os.Setenv("TEDCROSS_SERVER_ENVIRONMENT", "production")
		os.Setenv("TEDCROSS_DATA_DOMESTIC_PATH", "/data/domestic.csv")
		os.Setenv("TEDCROSS_DATA_REFERENCE_PATH", "/data/reference.csv")
		os.Setenv("TEDCROSS_MATCHING_TOLERANCE_PCT", "0.05")
		os.Setenv("TEDCROSS_MATCHING_YEAR_WINDOW", "2")
		os.Setenv("TEDCROSS_MATCHING_USE_SARA_THRESHOLDS", "true")
		os.Setenv("TEDCROSS_RATELIMIT_PER_SECOND", "50")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Data.DomesticPath != "/data/domestic.csv" {
			t.Errorf("Data.DomesticPath = %s, want /data/domestic.csv", cfg.Data.DomesticPath)
		}
		if cfg.Data.ReferencePath != "/data/reference.csv" {
			t.Errorf("Data.ReferencePath = %s, want /data/reference.csv", cfg.Data.ReferencePath)
		}
		if cfg.Matching.TolerancePct != 0.05 {
			t.Errorf("Matching.TolerancePct = %v, want 0.05", cfg.Matching.TolerancePct)
		}
		if cfg.Matching.YearWindow != 2 {
			t.Errorf("Matching.YearWindow = %d, want 2", cfg.Matching.YearWindow)
		}
		if !cfg.Matching.UseSaraThresholds {
			t.Error("Matching.UseSaraThresholds = false, want true")
		}
		if cfg.RateLimit.PerSecond != 50 {
			t.Errorf("RateLimit.PerSecond = %v, want 50", cfg.RateLimit.PerSecond)
		}
	})

	t.Run("fails validation for out-of-range tolerance", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TEDCROSS_MATCHING_TOLERANCE_PCT", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for tolerance_pct > 1")
		}
	})

	t.Run("fails validation for negative year window", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TEDCROSS_MATCHING_YEAR_WINDOW", "-1")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for negative year_window")
		}
	})

	t.Run("fails validation for zero rate limit", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TEDCROSS_RATELIMIT_PER_SECOND", "0")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for per_second = 0")
		}
	})
}
