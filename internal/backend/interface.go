package backend

import (
	"context"
	"slices"
	"time"

	"finboard/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the storage provider and optional cleanup function
type BackendResult struct {
	Provider storage.Provider
	Cleanup  CleanupFunc
}

// Factory creates storage providers based on configuration
type Factory interface {
	// CreateBackend creates a provider instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Relational specific
	DatabaseURL string
	AutoMigrate bool

	// Local specific
	LocalDataDir string
	LocalEnabled bool

	// Read cache in front of either provider, zero disables it
	CacheTTL time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	AutoBackend       BackendType = "auto"
	LocalBackend      BackendType = "local"
	RelationalBackend BackendType = "relational"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	return slices.Contains(GetBackendTypes(), bt)
}

// Resolve picks the concrete backend. Auto selects the relational store
// whenever a database URL is configured.
func (c Config) Resolve() BackendType {
	if c.Type != AutoBackend {
		return c.Type
	}
	if c.DatabaseURL != "" {
		return RelationalBackend
	}
	return LocalBackend
}
