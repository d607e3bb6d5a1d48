//go:build cgo

package vault

import (
	"errors"

	mattn "github.com/mattn/go-sqlite3"
)

// defaultSQLiteDriver is the cgo driver when cgo is available.
const defaultSQLiteDriver = "sqlite3"

// classifyMattnError maps errors of the cgo SQLite driver.
func classifyMattnError(err error) (Status, bool) {
	var e mattn.Error
	if !errors.As(err, &e) {
		return 0, false
	}

	switch e.ExtendedCode {
	case mattn.ErrConstraintUnique, mattn.ErrConstraintPrimaryKey:
		return StatusDuplicateItem, true
	}

	switch e.Code {
	case mattn.ErrBusy, mattn.ErrLocked:
		return StatusNotAvailable, true
	case mattn.ErrPerm, mattn.ErrAuth, mattn.ErrReadonly:
		return StatusAuthFailed, true
	}

	return StatusIO, true
}
