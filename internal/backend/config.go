package backend

import (
	"fmt"
	"strings"

	"finboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %s)",
			appConfig.DataBackend, strings.Join(GetBackendTypeStrings(), ", "))
	}

	return Config{
		Type: backendType,

		DatabaseURL: appConfig.DatabaseURL,
		AutoMigrate: appConfig.AutoMigrate,

		LocalDataDir: appConfig.LocalDataDir,
		LocalEnabled: appConfig.LocalStorageEnabled,

		CacheTTL: appConfig.CacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}

	switch c.Resolve() {
	case RelationalBackend:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for relational backend")
		}
	case LocalBackend:
		if c.LocalEnabled && c.LocalDataDir == "" {
			return fmt.Errorf("local data directory is required when local storage is enabled")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{AutoBackend, LocalBackend, RelationalBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
