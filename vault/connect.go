// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/migrations"
)

// Backend names accepted by [Open].
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendSecurity = "security"
)

// Options selects and configures a backend for [Open].
type Options struct {
	// Backend is "memory", "file", "sqlite", "postgres", "mysql" or
	// "security". Empty means memory.
	Backend string
	// Driver optionally overrides the database/sql driver of a SQL backend.
	Driver string
	// DSN is the data source name of a SQL backend.
	DSN string
	// MaxOpenConns caps the SQL connection pool; zero keeps the default.
	MaxOpenConns int
	// Path is the state file of the file backend.
	Path string
	// Runner executes the security tool; nil runs the real binary.
	Runner CommandRunner
}

func nopClose() error { return nil }

// Open builds the backend described by opts. The returned close function
// releases the backend's resources and is never nil.
func Open(ctx context.Context, opts Options, log *logger.Logger) (Vault, func() error, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch opts.Backend {
	case "", BackendMemory:
		v, err := NewMemoryVault("", log)
		return v, nopClose, err

	case BackendFile:
		if opts.Path == "" {
			return nil, nopClose, fmt.Errorf("file backend: empty state file path")
		}
		v, err := NewMemoryVault(opts.Path, log)
		if err != nil {
			log.Err(err).Str("func", "vault.Open").Msg("error loading vault state file")
			return nil, nopClose, err
		}
		return v, nopClose, nil

	case BackendSecurity:
		return NewSecurityCLIVault(opts.Runner, log), nopClose, nil

	case BackendSQLite, BackendPostgres, BackendMySQL:
		dialect, err := DialectFor(opts.Backend, opts.Driver)
		if err != nil {
			return nil, nopClose, err
		}

		db, err := NewConnectSQL(ctx, dialect, opts.DSN, opts.MaxOpenConns, log)
		if err != nil {
			return nil, nopClose, err
		}

		if err = migrations.Migrate(db, dialect.Name); err != nil {
			log.Err(err).Str("func", "vault.Open").Str("dialect", dialect.Name).Msg("error migrating database")
			_ = db.Close()
			return nil, nopClose, err
		}

		return NewSQLVault(db, dialect, log), db.Close, nil
	}

	return nil, nopClose, fmt.Errorf("unknown vault backend %q", opts.Backend)
}

// NewConnectSQL opens and pings a database for dialect. SQLite databases get
// their parent directory created and a single connection; MySQL DSNs are
// adjusted so that updates report matched rather than changed rows.
func NewConnectSQL(ctx context.Context, dialect Dialect, dsn string, maxOpenConns int, log *logger.Logger) (*sql.DB, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch dialect.Name {
	case DialectSQLite.Name:
		if err := createSQLiteDir(dsn); err != nil {
			log.Err(err).Str("func", "NewConnectSQL").Msg("error creating database directory")
			return nil, err
		}
	case DialectMySQL.Name:
		normalized, err := normalizeMySQLDSN(dsn)
		if err != nil {
			log.Err(err).Str("func", "NewConnectSQL").Msg("error parsing mysql dsn")
			return nil, err
		}
		dsn = normalized
	}

	conn, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQL").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// SQLite allows a single writer
	if dialect.Name == DialectSQLite.Name {
		conn.SetMaxOpenConns(1)
	} else if maxOpenConns > 0 {
		conn.SetMaxOpenConns(maxOpenConns)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQL").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQL").Str("driver", dialect.DriverName).Msg("connected to database successfully")

	return conn, nil
}

// createSQLiteDir makes the directory of a file DSN. In-memory and URI
// DSNs are left alone.
func createSQLiteDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}

	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating database directory: %w", err)
	}

	return nil
}

// normalizeMySQLDSN enables clientFoundRows, so an update that rewrites the
// same payload still counts as a match, and parseTime for the timestamps.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}
