package vault

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// MySQL server error numbers the vault cares about.
const (
	mysqlErrDupEntry       = 1062
	mysqlErrAccessDenied   = 1045
	mysqlErrDBAccessDenied = 1044
)

// classifySQLError maps a driver error to the closest vault status. Unknown
// errors become StatusIO.
func classifySQLError(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	switch {
	case errors.Is(err, context.Canceled):
		return StatusUserCanceled
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, driver.ErrBadConn):
		return StatusNotAvailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPgError(pgErr)
	}

	if st, ok := classifyMattnError(err); ok {
		return st
	}

	var moderncErr *moderncsqlite.Error
	if errors.As(err, &moderncErr) {
		return classifySQLiteCode(moderncErr.Code())
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDupEntry:
			return StatusDuplicateItem
		case mysqlErrAccessDenied, mysqlErrDBAccessDenied:
			return StatusAuthFailed
		}
		return StatusIO
	}

	return StatusIO
}

// classifyPgError maps PostgreSQL error codes.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func classifyPgError(pgErr *pgconn.PgError) Status {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return StatusDuplicateItem

	// class 08 connection exceptions, 57P03 cannot connect now
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow:
		return StatusNotAvailable

	// class 28 invalid authorization, 42501 insufficient privilege
	case pgerrcode.InvalidAuthorizationSpecification,
		pgerrcode.InvalidPassword,
		pgerrcode.InsufficientPrivilege:
		return StatusAuthFailed

	case pgerrcode.QueryCanceled:
		return StatusUserCanceled
	}

	return StatusIO
}

// classifySQLiteCode handles modernc's extended result codes.
func classifySQLiteCode(code int) Status {
	switch code {
	case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return StatusDuplicateItem
	}

	switch code & 0xff {
	case sqlitelib.SQLITE_BUSY, sqlitelib.SQLITE_LOCKED:
		return StatusNotAvailable
	case sqlitelib.SQLITE_PERM, sqlitelib.SQLITE_AUTH, sqlitelib.SQLITE_READONLY:
		return StatusAuthFailed
	}

	return StatusIO
}
