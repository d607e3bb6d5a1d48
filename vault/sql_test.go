package vault

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/query"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSQLVault(t *testing.T, dialect Dialect) (*sqlVault, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v := NewSQLVault(db, dialect, logger.Nop()).(*sqlVault)
	v.now = func() time.Time { return fixedNow }
	v.newID = func() string { return "item-1" }
	return v, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestSQLVault_Probe(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery(`SELECT 1 FROM vault_items WHERE account = \? AND class = \? AND service = \? AND synchronizable = \? LIMIT 1`).
			WithArgs("a", "genp", "svc", false).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.Equal(t, StatusSuccess, v.Probe(ctx, accountQuery("svc", "a")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery("SELECT 1 FROM vault_items").
			WithArgs("a", "genp", "svc", false).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		assert.Equal(t, StatusItemNotFound, v.Probe(ctx, accountQuery("svc", "a")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("synced only", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery("SELECT 1 FROM vault_items").
			WithArgs("a", "genp", "svc", true).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.Equal(t, StatusSuccess, v.Probe(ctx, accountQuery("svc", "a").With(query.AttrSynchronizable, true)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection failure", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectPostgres)
		mock.ExpectQuery(`SELECT 1 FROM vault_items WHERE account = \$1 AND class = \$2 AND service = \$3 AND synchronizable = \$4 LIMIT 1`).
			WithArgs("a", "genp", "svc", false).
			WillReturnError(pgError(pgerrcode.ConnectionFailure))

		assert.Equal(t, StatusNotAvailable, v.Probe(ctx, accountQuery("svc", "a")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid descriptor never reaches the database", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)

		assert.Equal(t, StatusParam, v.Probe(ctx, query.Descriptor{query.AttrService: "svc"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLVault_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns data", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery(`SELECT data FROM vault_items WHERE .+ ORDER BY item_id LIMIT 1`).
			WithArgs("a", "genp", "svc", false).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte("secret")))

		payload, st := v.Fetch(ctx, accountQuery("svc", "a"))
		require.Equal(t, StatusSuccess, st)
		assert.Equal(t, []byte("secret"), payload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty payload is not nil", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery("SELECT data FROM vault_items").
			WithArgs("a", "genp", "svc", false).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(nil))

		payload, st := v.Fetch(ctx, accountQuery("svc", "a"))
		require.Equal(t, StatusSuccess, st)
		assert.Equal(t, []byte{}, payload)
	})

	t.Run("not found", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery("SELECT data FROM vault_items").
			WithArgs("a", "genp", "svc", false).
			WillReturnError(sql.ErrNoRows)

		payload, st := v.Fetch(ctx, accountQuery("svc", "a"))
		assert.Equal(t, StatusItemNotFound, st)
		assert.Nil(t, payload)
	})

	t.Run("canceled", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectQuery("SELECT data FROM vault_items").
			WithArgs("a", "genp", "svc", false).
			WillReturnError(context.Canceled)

		_, st := v.Fetch(ctx, accountQuery("svc", "a"))
		assert.Equal(t, StatusUserCanceled, st)
	})
}

func TestSQLVault_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectPostgres)
		mock.ExpectExec(`INSERT INTO vault_items \(item_id,class,service,account,access_group,accessible,synchronizable,data,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10\)`).
			WithArgs("item-1", "genp", "svc", "a", "", "ak", false, []byte("secret"), fixedNow, fixedNow).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.Equal(t, StatusSuccess, v.Insert(ctx, insertQuery("svc", "a", []byte("secret"))))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectPostgres)
		mock.ExpectExec("INSERT INTO vault_items").
			WillReturnError(pgError(pgerrcode.UniqueViolation))

		assert.Equal(t, StatusDuplicateItem, v.Insert(ctx, insertQuery("svc", "a", []byte("secret"))))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing data", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectPostgres)

		assert.Equal(t, StatusParam, v.Insert(ctx, accountQuery("svc", "a")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLVault_Update(t *testing.T) {
	ctx := context.Background()
	attrs := query.Descriptor{query.ValueData: []byte("new")}

	t.Run("success", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec(`UPDATE vault_items SET data = \?, updated_at = \? WHERE account = \? AND class = \? AND service = \? AND synchronizable = \?`).
			WithArgs([]byte("new"), fixedNow, "a", "genp", "svc", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.Equal(t, StatusSuccess, v.Update(ctx, accountQuery("svc", "a"), attrs))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec("UPDATE vault_items").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, StatusItemNotFound, v.Update(ctx, accountQuery("svc", "a"), attrs))
	})

	t.Run("rows affected failure", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec("UPDATE vault_items").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))

		assert.Equal(t, StatusIO, v.Update(ctx, accountQuery("svc", "a"), attrs))
	})
}

func TestSQLVault_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("whole namespace across sync states", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec(`DELETE FROM vault_items WHERE class = \? AND service = \?$`).
			WithArgs("genp", "svc").
			WillReturnResult(sqlmock.NewResult(0, 3))

		q := query.NewGenericPassword("svc", "").Query().With(query.AttrSynchronizable, query.SynchronizableAny)
		assert.Equal(t, StatusSuccess, v.Delete(ctx, q))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing deleted", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec("DELETE FROM vault_items").
			WithArgs("a", "genp", "svc", false).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, StatusItemNotFound, v.Delete(ctx, accountQuery("svc", "a")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("access group filter", func(t *testing.T) {
		v, mock := newTestSQLVault(t, DialectSQLite)
		mock.ExpectExec(`DELETE FROM vault_items WHERE access_group = \? AND account = \?`).
			WithArgs("TEAM.group", "a", "genp", "svc", false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		q := query.ForAccount(query.NewGenericPassword("svc", "TEAM.group").Query(), "a")
		assert.Equal(t, StatusSuccess, v.Delete(ctx, q))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
