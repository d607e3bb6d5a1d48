package vault

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect ties a database/sql driver to the placeholder style and migration
// set of the SQL vault.
type Dialect struct {
	// Name is the migration set: "sqlite", "postgres" or "mysql".
	Name string
	// DriverName is the database/sql driver to open.
	DriverName string
	// Placeholder is the bind-parameter style of the driver.
	Placeholder sq.PlaceholderFormat
}

var (
	// DialectSQLite uses the cgo driver github.com/mattn/go-sqlite3.
	DialectSQLite = Dialect{Name: "sqlite", DriverName: "sqlite3", Placeholder: sq.Question}
	// DialectSQLitePure uses the pure Go driver modernc.org/sqlite.
	DialectSQLitePure = Dialect{Name: "sqlite", DriverName: "sqlite", Placeholder: sq.Question}
	// DialectPostgres uses pgx through its database/sql adapter.
	DialectPostgres = Dialect{Name: "postgres", DriverName: "pgx", Placeholder: sq.Dollar}
	// DialectMySQL uses github.com/go-sql-driver/mysql.
	DialectMySQL = Dialect{Name: "mysql", DriverName: "mysql", Placeholder: sq.Question}
)

// ErrUnknownDialect is returned for an unsupported backend/driver pair.
var ErrUnknownDialect = errors.New("unknown sql dialect")

// DialectFor resolves a backend name and optional driver override.
//
//	sqlite   + "sqlite3"      → mattn/go-sqlite3
//	sqlite   + "sqlite"       → modernc.org/sqlite
//	sqlite   + ""             → mattn with cgo, modernc without
//	postgres + ""|"pgx"       → pgx
//	mysql    + ""|"mysql"     → go-sql-driver/mysql
func DialectFor(backend, driver string) (Dialect, error) {
	switch backend {
	case BackendSQLite:
		if driver == "" {
			driver = defaultSQLiteDriver
		}
		switch driver {
		case DialectSQLite.DriverName:
			return DialectSQLite, nil
		case DialectSQLitePure.DriverName:
			return DialectSQLitePure, nil
		}
	case BackendPostgres:
		if driver == "" || driver == DialectPostgres.DriverName {
			return DialectPostgres, nil
		}
	case BackendMySQL:
		if driver == "" || driver == DialectMySQL.DriverName {
			return DialectMySQL, nil
		}
	}

	return Dialect{}, fmt.Errorf("%w: backend=%q driver=%q", ErrUnknownDialect, backend, driver)
}
