// Package cli provides the subtrackr command line: initialization shared by
// every command and the subcommand dispatcher.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"subtrackr/internal/backend"
	"subtrackr/internal/config"
	applog "subtrackr/internal/log"
	"subtrackr/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg, writing to w, and installs it as the slog default.
func SetupLogger(cfg *config.Config, w io.Writer) *applog.Logger {
	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentCLI
	logCfg.Writer = w
	if cfg != nil {
		if level, err := cfg.SlogLevel(); err == nil {
			logCfg.Level = level
		}
		logCfg.Format = cfg.LogFormat
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger
}

// OpenStore opens the configured slot medium and returns the subscription store over it.
// The cleanup function releases the medium and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*store.BlobStore, backend.CleanupFunc, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s backend: %w", backendCfg.Type, err)
	}
	st := store.New(res.Slot, cfg.StorageKey, store.WithLogger(logger))
	logger.DebugContext(ctx, "Store ready",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, backendCfg.Type,
		applog.FieldKey, st.Key())
	return st, res.Close, nil
}

func languageOf(cfg *config.Config) language.Tag {
	if cfg == nil {
		return language.AmericanEnglish
	}
	return cfg.Language()
}
