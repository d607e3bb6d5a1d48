// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-keychain-store/vault"
)

// Storage backends, as named by the vault package.
const (
	BackendMemory   = vault.BackendMemory
	BackendFile     = vault.BackendFile
	BackendSQLite   = vault.BackendSQLite
	BackendPostgres = vault.BackendPostgres
	BackendMySQL    = vault.BackendMySQL
	BackendSecurity = vault.BackendSecurity
)

// StructuredConfig is the top-level configuration container for a keychain
// store. It is populated by merging values from environment variables and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Keychain holds the namespace and access policy of the store.
	Keychain Keychain `envPrefix:"KEYCHAIN_"`

	// Storage selects and configures the vault backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables.
	JSONFilePath string `env:"CONFIG"`
}

// Keychain holds the settings of the keychain facade.
type Keychain struct {
	// Service is the namespace every item is scoped to. Empty means the
	// executable name.
	// Env: KEYCHAIN_SERVICE
	Service string `env:"SERVICE"`

	// AccessGroup optionally shares items between applications.
	// Env: KEYCHAIN_ACCESS_GROUP
	AccessGroup string `env:"ACCESS_GROUP"`

	// RestrictedEnvironment drops the access group from every query, for
	// environments that reject it (simulators, CI runners).
	// Env: KEYCHAIN_RESTRICTED_ENVIRONMENT
	RestrictedEnvironment bool `env:"RESTRICTED_ENVIRONMENT"`

	// Accessibility is the name or raw code of the accessibility class
	// applied on insert (e.g. "when_unlocked", "after_first_unlock").
	// Env: KEYCHAIN_ACCESSIBILITY
	Accessibility string `env:"ACCESSIBILITY"`

	// Synchronizable marks new items as synced across devices.
	// Env: KEYCHAIN_SYNCHRONIZABLE
	Synchronizable bool `env:"SYNCHRONIZABLE"`

	// InsertRaceRetry re-runs a write once when its insert lost a race to a
	// concurrent writer.
	// Env: KEYCHAIN_INSERT_RACE_RETRY
	InsertRaceRetry bool `env:"INSERT_RACE_RETRY"`

	// InsertRetryDelay is the pause before that retry (e.g. "10ms").
	// Env: KEYCHAIN_INSERT_RETRY_DELAY
	InsertRetryDelay time.Duration `env:"INSERT_RETRY_DELAY"`
}

// Storage groups the configuration for the vault backends.
type Storage struct {
	// Backend is one of the Backend* constants. Empty means memory.
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the settings of the file backend.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the SQL backends.
type DB struct {
	// Driver optionally overrides the database/sql driver, e.g. "sqlite"
	// for the pure Go SQLite driver.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name. For sqlite it is the database file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`

	// MaxOpenConns caps the connection pool. Zero keeps the driver default.
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Files holds settings of the JSON state file backend.
type Files struct {
	// Path is the state file. Its directory is created with 0700.
	// Env: STORAGE_FILES_PATH
	Path string `env:"PATH"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. JSON file (path resolved from CONFIG)
func GetStructuredConfig() (*StructuredConfig, error) {
	return GetPrefixedConfig("")
}

// GetPrefixedConfig is [GetStructuredConfig] for hosts that namespace their
// environment: every variable name, CONFIG included, is read with prefix
// prepended.
func GetPrefixedConfig(prefix string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv(prefix).
		withJSON().
		build()
}

// LoadFile is [GetStructuredConfig] with an explicit JSON file path that
// takes precedence over CONFIG.
func LoadFile(path string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv("").
		withConfig(&StructuredConfig{JSONFilePath: path}).
		withJSON().
		build()
}
