// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/query"
)

const itemsTable = "vault_items"

// sqlVault stores items in the vault_items table created by the migrations
// package. A unique index over the item identity turns a concurrent
// duplicate insert into StatusDuplicateItem.
type sqlVault struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
	logger  *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewSQLVault returns a [Vault] over an open, migrated database.
func NewSQLVault(db *sql.DB, dialect Dialect, log *logger.Logger) Vault {
	if log == nil {
		log = logger.Nop()
	}
	log.Debug().Str("dialect", dialect.Name).Str("driver", dialect.DriverName).Msg("creating sql vault")

	return &sqlVault{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   newItemID,
	}
}

// where translates a filter into equality predicates.
func where(f itemFilter) sq.Eq {
	eq := sq.Eq{"class": string(f.class)}
	if f.service != nil {
		eq["service"] = *f.service
	}
	if f.account != nil {
		eq["account"] = *f.account
	}
	if f.accessGroup != nil {
		eq["access_group"] = *f.accessGroup
	}

	switch f.sync {
	case query.SyncOnlyLocal:
		eq["synchronizable"] = false
	case query.SyncOnlySynced:
		eq["synchronizable"] = true
	}

	return eq
}

// Probe implements [Vault].
func (v *sqlVault) Probe(ctx context.Context, q query.Descriptor) Status {
	log := logger.FromContextOr(ctx, v.logger)

	f, st := parseFilter(q)
	if st != StatusSuccess {
		return st
	}

	stmt, args, err := v.builder.Select("1").From(itemsTable).Where(where(f)).Limit(1).ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqlVault.Probe").Msg("failed to build probe query")
		return StatusParam
	}

	var one int
	if err = v.db.QueryRowContext(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StatusItemNotFound
		}
		log.Err(err).Str("func", "sqlVault.Probe").Msg("failed to execute probe query")
		return classifySQLError(err)
	}

	return StatusSuccess
}

// Fetch implements [Vault].
func (v *sqlVault) Fetch(ctx context.Context, q query.Descriptor) (any, Status) {
	log := logger.FromContextOr(ctx, v.logger)

	f, st := parseFilter(q)
	if st != StatusSuccess {
		return nil, st
	}

	stmt, args, err := v.builder.Select("data").From(itemsTable).Where(where(f)).
		OrderBy("item_id").Limit(1).ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqlVault.Fetch").Msg("failed to build fetch query")
		return nil, StatusParam
	}

	var data []byte
	if err = v.db.QueryRowContext(ctx, stmt, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, StatusItemNotFound
		}
		log.Err(err).Str("func", "sqlVault.Fetch").Msg("failed to scan item data")
		return nil, classifySQLError(err)
	}
	if data == nil {
		data = []byte{}
	}

	return data, StatusSuccess
}

// Insert implements [Vault].
func (v *sqlVault) Insert(ctx context.Context, q query.Descriptor) Status {
	log := logger.FromContextOr(ctx, v.logger)

	it, st := newItem(q, v.newID(), v.now())
	if st != StatusSuccess {
		return st
	}

	stmt, args, err := v.builder.Insert(itemsTable).
		Columns("item_id", "class", "service", "account", "access_group",
			"accessible", "synchronizable", "data", "created_at", "updated_at").
		Values(it.ItemID, it.Class, it.Service, it.Account, it.AccessGroup,
			string(it.Accessible), it.Synchronizable, it.Data, it.CreatedAt, it.UpdatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqlVault.Insert").Msg("failed to build insert query")
		return StatusParam
	}

	if _, err = v.db.ExecContext(ctx, stmt, args...); err != nil {
		st := classifySQLError(err)
		if st != StatusDuplicateItem {
			log.Err(err).Str("func", "sqlVault.Insert").Str("item_id", it.ItemID).Msg("failed to insert item")
		}
		return st
	}

	return StatusSuccess
}

// Update implements [Vault].
func (v *sqlVault) Update(ctx context.Context, q query.Descriptor, attrs query.Descriptor) Status {
	log := logger.FromContextOr(ctx, v.logger)

	f, st := parseFilter(q)
	if st != StatusSuccess {
		return st
	}
	data, st := updateData(attrs)
	if st != StatusSuccess {
		return st
	}

	stmt, args, err := v.builder.Update(itemsTable).
		Set("data", data).
		Set("updated_at", v.now()).
		Where(where(f)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqlVault.Update").Msg("failed to build update query")
		return StatusParam
	}

	return v.execAffecting(ctx, "sqlVault.Update", stmt, args)
}

// Delete implements [Vault].
func (v *sqlVault) Delete(ctx context.Context, q query.Descriptor) Status {
	log := logger.FromContextOr(ctx, v.logger)

	f, st := parseFilter(q)
	if st != StatusSuccess {
		return st
	}

	stmt, args, err := v.builder.Delete(itemsTable).Where(where(f)).ToSql()
	if err != nil {
		log.Err(err).Str("func", "sqlVault.Delete").Msg("failed to build delete query")
		return StatusParam
	}

	return v.execAffecting(ctx, "sqlVault.Delete", stmt, args)
}

// DescribeStatus implements [Vault].
func (v *sqlVault) DescribeStatus(s Status) (string, bool) {
	return DescribeStatus(s)
}

// execAffecting runs a DML statement and reports StatusItemNotFound when it
// touched no rows.
func (v *sqlVault) execAffecting(ctx context.Context, fn, stmt string, args []any) Status {
	log := logger.FromContextOr(ctx, v.logger)

	res, err := v.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute statement")
		return classifySQLError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to read affected rows")
		return StatusIO
	}
	if n == 0 {
		return StatusItemNotFound
	}

	return StatusSuccess
}
