// Package postgres stores allocations, winners and operators in PostgreSQL
// using the column layout of the original kupons/winners/users tables.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS kupons (
	id                  TEXT PRIMARY KEY,
	nama_keluarga       TEXT NOT NULL DEFAULT '',
	nama_remaja         TEXT NOT NULL DEFAULT '',
	kategori_pembelian  TEXT NOT NULL DEFAULT '',
	nomor_kupon         TEXT[] NOT NULL DEFAULT '{}',
	jumlah_kupon        INTEGER NOT NULL DEFAULT 0,
	wijk                TEXT NOT NULL DEFAULT '',
	harga               BIGINT NOT NULL DEFAULT 0,
	jumlah_dibayar      BIGINT NOT NULL DEFAULT 0,
	status_pembayaran   TEXT NOT NULL,
	status_penerimaan   TEXT NOT NULL DEFAULT 'Belum Diterima',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS kupons_status_idx ON kupons (status_pembayaran, status_penerimaan);

CREATE TABLE IF NOT EXISTS winners (
	id                  TEXT PRIMARY KEY,
	nomor_kupon         TEXT NOT NULL,
	nama_keluarga       TEXT NOT NULL DEFAULT '',
	nama_remaja         TEXT NOT NULL DEFAULT '',
	kategori_pembelian  TEXT NOT NULL DEFAULT '',
	wijk                TEXT NOT NULL DEFAULT '',
	waktu_undi          TIMESTAMPTZ NOT NULL DEFAULT now(),
	drawn_by            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	username    TEXT NOT NULL UNIQUE,
	password    TEXT NOT NULL,
	role        TEXT NOT NULL DEFAULT 'panitia',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DBExecutor interface for database operations (can be *sqlx.DB or *sqlx.Tx)
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

var _ DBExecutor = (*sqlx.DB)(nil)

// Migrate creates the tables if they do not exist yet
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
