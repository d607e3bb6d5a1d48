// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/go-keychain-store/models"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendMemory
	}
}

// validate checks that the final merged [StructuredConfig] can be used to
// open a store.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Backend {
	case BackendMemory, BackendSecurity:
	case BackendFile:
		if cfg.Storage.Files.Path == "" {
			return fmt.Errorf("%w: file backend requires a path", ErrInvalidStorageConfigs)
		}
	case BackendSQLite, BackendPostgres, BackendMySQL:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: %s backend requires a dsn", ErrInvalidStorageConfigs, cfg.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}
	if cfg.Storage.DB.MaxOpenConns < 0 {
		return fmt.Errorf("%w: negative max open conns", ErrInvalidStorageConfigs)
	}

	if _, err := models.ParseAccessibility(cfg.Keychain.Accessibility); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeychainConfigs, err)
	}
	if cfg.Keychain.InsertRetryDelay < 0 {
		return fmt.Errorf("%w: negative insert retry delay", ErrInvalidKeychainConfigs)
	}

	return nil
}
