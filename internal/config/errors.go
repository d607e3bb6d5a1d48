package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown backend or an empty DSN for a SQL backend).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidKeychainConfigs indicates invalid keychain settings
	// (for example, an unknown accessibility or a negative retry delay).
	ErrInvalidKeychainConfigs = errors.New("invalid keychain configuration")
)
