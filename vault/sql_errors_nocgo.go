//go:build !cgo

package vault

// defaultSQLiteDriver falls back to modernc.org/sqlite.
const defaultSQLiteDriver = "sqlite"

// classifyMattnError is a no-op without cgo: github.com/mattn/go-sqlite3 is
// a stub there and the pure Go driver must be selected instead.
func classifyMattnError(error) (Status, bool) {
	return 0, false
}
