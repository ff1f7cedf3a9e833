package backend

import (
	"context"
	"fmt"
	"time"

	"subtrackr/internal/kv"
	"subtrackr/internal/kv/file"
	"subtrackr/internal/kv/memory"
	kvredis "subtrackr/internal/kv/redis"
	applog "subtrackr/internal/log"
	"subtrackr/internal/storage"
)

const defaultRedisConnectTimeout = 5 * time.Second

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Nop()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case RedisBackend:
		return f.createRedisBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	case NoneBackend:
		return f.createDetachedBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := file.New(config.DataDirectory)

	f.logger.DebugContext(ctx, "Initialized file backend",
		applog.FieldBackend, FileBackend, "data_directory", store.Dir())

	return &BackendResult{Slot: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized SQLite backend",
		applog.FieldBackend, SQLiteBackend, "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Slot:    sqliteRepo,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createRedisBackend(ctx context.Context, config Config) (*BackendResult, error) {
	timeout := config.RedisConnectTimeout
	if timeout <= 0 {
		timeout = defaultRedisConnectTimeout
	}

	store, err := kvredis.Connect(ctx, config.RedisURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f.logger.DebugContext(ctx, "Initialized Redis backend", applog.FieldBackend, RedisBackend)

	return &BackendResult{
		Slot:    store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.DebugContext(ctx, "Initialized memory backend; data lives for this process only",
		applog.FieldBackend, MemoryBackend)

	return &BackendResult{Slot: memory.New()}, nil
}

func (f *DefaultFactory) createDetachedBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.WarnContext(ctx, "No storage medium configured; changes will not be saved",
		applog.FieldBackend, NoneBackend)

	return &BackendResult{Slot: kv.Detached{}}, nil
}
