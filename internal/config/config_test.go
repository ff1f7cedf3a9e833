package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func validConfig() Config {
	return Config{
		DataBackend:         "file",
		DataDir:             "./data",
		SQLiteDBPath:        "./data/subtrackr.db",
		RedisURL:            "redis://localhost:6379/0",
		RedisConnectTimeout: 5 * time.Second,
		StorageKey:          "subtrackr_subscriptions",
		LogLevel:            "warn",
		LogFormat:           "text",
		Locale:              "en-US",
		CurrencySymbol:      "$",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid file backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid redis backend config",
			mutate:  func(c *Config) { c.DataBackend = "redis"; c.RedisURL = "rediss://cache.internal:6380/1" },
			wantErr: false,
		},
		{
			name:    "valid none backend config",
			mutate:  func(c *Config) { c.DataBackend = "none"; c.DataDir = "" },
			wantErr: false,
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [file sqlite redis memory none]",
		},
		{
			name:        "file backend missing directory",
			mutate:      func(c *Config) { c.DataDir = "  " },
			wantErr:     true,
			errorString: "data directory cannot be empty when using file backend",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.DataBackend = "sqlite"; c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "redis backend wrong scheme",
			mutate:      func(c *Config) { c.DataBackend = "redis"; c.RedisURL = "http://localhost:6379" },
			wantErr:     true,
			errorString: "invalid Redis URL scheme 'http': must be 'redis' or 'rediss'",
		},
		{
			name:        "redis backend zero timeout",
			mutate:      func(c *Config) { c.DataBackend = "redis"; c.RedisConnectTimeout = 0 },
			wantErr:     true,
			errorString: "invalid Redis connect timeout 0s: must be positive",
		},
		{
			name:        "storage key with separator",
			mutate:      func(c *Config) { c.StorageKey = "../etc/passwd" },
			wantErr:     true,
			errorString: "invalid storage key '../etc/passwd': must not contain path separators",
		},
		{
			name:        "empty storage key",
			mutate:      func(c *Config) { c.StorageKey = "" },
			wantErr:     true,
			errorString: "storage key cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml': must be 'text' or 'json'",
		},
		{
			name:        "invalid locale",
			mutate:      func(c *Config) { c.Locale = "not a locale" },
			wantErr:     true,
			errorString: "invalid locale 'not a locale'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error but got none")
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, expected to contain %v", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "bogus"
	cfg.LogFormat = "xml"
	cfg.StorageKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"invalid data backend", "invalid log format", "storage key cannot be empty"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %q", msg, want)
		}
	}
	if !strings.HasPrefix(msg, "configuration validation failed:") {
		t.Errorf("unexpected prefix: %q", msg)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{
			"DATA_BACKEND", "DATA_DIR", "SQLITE_DB_PATH", "REDIS_URL", "REDIS_CONNECT_TIMEOUT",
			"STORAGE_KEY", "LOG_LEVEL", "LOG_FORMAT", "LOCALE", "CURRENCY_SYMBOL",
		} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if *cfg != validConfig() {
			t.Errorf("Load() = %+v, want %+v", *cfg, validConfig())
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("REDIS_CONNECT_TIMEOUT", "250ms")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOCALE", "it-IT")
		t.Setenv("CURRENCY_SYMBOL", "€")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("unexpected backend settings: %+v", cfg)
		}
		if cfg.RedisConnectTimeout != 250*time.Millisecond {
			t.Errorf("RedisConnectTimeout = %v", cfg.RedisConnectTimeout)
		}
		if lvl, err := cfg.SlogLevel(); err != nil || lvl != slog.LevelDebug {
			t.Errorf("SlogLevel() = %v, %v", lvl, err)
		}
		if cfg.Language() != language.MustParse("it-IT") {
			t.Errorf("Language() = %v", cfg.Language())
		}
		if cfg.CurrencySymbol != "€" {
			t.Errorf("CurrencySymbol = %q", cfg.CurrencySymbol)
		}
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("REDIS_CONNECT_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
