package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finboard/internal/cache"
	"finboard/internal/storage"
)

const cacheCleanupInterval = time.Minute

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		provider storage.Provider
		err      error
	)
	switch config.Resolve() {
	case RelationalBackend:
		provider, err = f.createRelationalBackend(ctx, config)
	case LocalBackend:
		provider, err = f.createLocalBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheTTL <= 0 {
		return &BackendResult{Provider: provider, Cleanup: provider.Close}, nil
	}

	cached, lru := storage.NewCached(provider, config.CacheTTL)
	manager := cache.NewManager(f.logger)
	manager.Register(lru)
	manager.StartCleanup(cacheCleanupInterval)

	f.logger.Info("Enabled read cache", "ttl", config.CacheTTL)

	return &BackendResult{
		Provider: cached,
		Cleanup: func() error {
			manager.Stop()
			return cached.Close()
		},
	}, nil
}

func (f *DefaultFactory) createRelationalBackend(ctx context.Context, config Config) (storage.Provider, error) {
	provider, err := storage.OpenRelational(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize relational storage: %w", err)
	}

	if config.AutoMigrate {
		if err := provider.InitSchema(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to initialize schema: %w", err), provider.Close())
		}
	}

	f.logger.Info("Initialized relational backend",
		"dialect", provider.Dialect(),
		"auto_migrate", config.AutoMigrate)

	return provider, nil
}

func (f *DefaultFactory) createLocalBackend(config Config) (storage.Provider, error) {
	provider, err := storage.NewLocalProvider(config.LocalDataDir, config.LocalEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	f.logger.Info("Initialized local backend",
		"data_directory", config.LocalDataDir,
		"enabled", config.LocalEnabled)

	return provider, nil
}
