// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-keychain-store/internal/config"
	"github.com/MKhiriev/go-keychain-store/models"
	"github.com/MKhiriev/go-keychain-store/query"
	"github.com/MKhiriev/go-keychain-store/vault"
)

// Open builds a Store from the environment (KEYCHAIN_*, STORAGE_* and an
// optional JSON file named by CONFIG). opts are applied after the
// configuration and win over it. Close the store to release the backend.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	return OpenWithEnvPrefix(ctx, "", opts...)
}

// OpenWithEnvPrefix is [Open] for hosts that namespace their environment:
// with prefix "MYAPP_" the service is read from MYAPP_KEYCHAIN_SERVICE and
// the JSON file from MYAPP_CONFIG.
func OpenWithEnvPrefix(ctx context.Context, prefix string, opts ...Option) (*Store, error) {
	cfg, err := config.GetPrefixedConfig(prefix)
	if err != nil {
		return nil, fmt.Errorf("error loading keychain config: %w", err)
	}
	return openWithConfig(ctx, cfg, opts...)
}

// OpenFile is [Open] with an explicit JSON configuration file that takes
// precedence over CONFIG.
func OpenFile(ctx context.Context, path string, opts ...Option) (*Store, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading keychain config: %w", err)
	}
	return openWithConfig(ctx, cfg, opts...)
}

func openWithConfig(ctx context.Context, cfg *config.StructuredConfig, opts ...Option) (*Store, error) {
	accessibility, err := models.ParseAccessibility(cfg.Keychain.Accessibility)
	if err != nil {
		return nil, err
	}

	cfgOpts := []Option{
		WithAccessPolicy(models.AccessPolicy{
			Accessibility:  accessibility,
			Synchronizable: cfg.Keychain.Synchronizable,
		}),
	}
	if cfg.Keychain.InsertRaceRetry {
		cfgOpts = append(cfgOpts, WithInsertRaceRetry(cfg.Keychain.InsertRetryDelay))
	}

	s := newStore(query.GenericPassword{
		Service:     cfg.Keychain.Service,
		AccessGroup: cfg.Keychain.AccessGroup,
		Restricted:  cfg.Keychain.RestrictedEnvironment,
	}, append(cfgOpts, opts...)...)

	v, closeFn, err := vault.Open(ctx, vault.Options{
		Backend:      cfg.Storage.Backend,
		Driver:       cfg.Storage.DB.Driver,
		DSN:          cfg.Storage.DB.DSN,
		MaxOpenConns: cfg.Storage.DB.MaxOpenConns,
		Path:         cfg.Storage.Files.Path,
	}, s.logger)
	if err != nil {
		s.logger.Err(err).Str("func", "keychain.Open").Str("backend", cfg.Storage.Backend).Msg("error opening vault backend")
		return nil, fmt.Errorf("error opening %s vault: %w", cfg.Storage.Backend, err)
	}

	s.vault = v
	s.close = closeFn
	s.logger.Debug().Str("func", "keychain.Open").Str("backend", cfg.Storage.Backend).Str("service", s.Service()).Msg("keychain store opened")

	return s, nil
}
