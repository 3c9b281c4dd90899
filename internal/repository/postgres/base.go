package postgres

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
)

var (
	serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}
	readOnly     = &sql.TxOptions{ReadOnly: true}
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db, dialect: goqu.Dialect("postgres")}
}

func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// From starts a prepared goqu query on table.
func (r *BaseRepository) From(table string) *goqu.SelectDataset {
	return r.dialect.From(table).Prepared(true)
}

// WithTx executes fn within a transaction opened with opts.
func (r *BaseRepository) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
