package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures the few SQL differences between Postgres and SQLite.
type Dialect struct {
	Driver   string
	BlobType string
	// ForUpdate is appended to the read inside Put to lock the row.
	ForUpdate string
}

var (
	Postgres = Dialect{Driver: "pgx", BlobType: "BYTEA", ForUpdate: " FOR UPDATE"}
	SQLite   = Dialect{Driver: "sqlite3", BlobType: "BLOB"}
)

// DB is a Backend over database/sql. All regions share the records table
// and all counters share the counters table.
type DB struct {
	Client  *sql.DB
	dialect Dialect
}

// NewDB opens a Postgres connection using pgx with sane defaults and runs
// the schema migration.
func NewDB(ctx context.Context, connString string) (*DB, error) {
	db, err := sql.Open(Postgres.Driver, connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return open(ctx, db, Postgres)
}

// NewSQLite opens (creating if needed) a SQLite database file.
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open(SQLite.Driver, path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	// single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)
	return open(ctx, db, SQLite)
}

func open(ctx context.Context, db *sql.DB, dialect Dialect) (*DB, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{Client: db, dialect: dialect}
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			region  INTEGER NOT NULL,
			id      BIGINT  NOT NULL,
			body    ` + d.dialect.BlobType + ` NOT NULL,
			PRIMARY KEY (region, id)
		)`,
		`CREATE TABLE IF NOT EXISTS counters (
			region  INTEGER PRIMARY KEY,
			value   BIGINT  NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a single record body.
func (d *DB) Get(ctx context.Context, region Region, id uint64) ([]byte, bool, error) {
	var body []byte
	err := d.Client.QueryRowContext(ctx,
		`SELECT body FROM records WHERE region = $1 AND id = $2`, int(region), int64(id),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Put upserts a record inside a transaction so the previous value is
// read and replaced atomically.
func (d *DB) Put(ctx context.Context, region Region, id uint64, data []byte) (prev []byte, existed bool, err error) {
	tx, err := d.Client.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		`SELECT body FROM records WHERE region = $1 AND id = $2`+d.dialect.ForUpdate, int(region), int64(id),
	).Scan(&prev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		prev, existed = nil, false
	case err != nil:
		return nil, false, err
	default:
		existed = true
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO records (region, id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (region, id) DO UPDATE SET body = excluded.body
	`, int(region), int64(id), data); err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, err
	}
	return prev, existed, nil
}

// Delete removes a record and returns its body.
func (d *DB) Delete(ctx context.Context, region Region, id uint64) ([]byte, bool, error) {
	var body []byte
	err := d.Client.QueryRowContext(ctx,
		`DELETE FROM records WHERE region = $1 AND id = $2 RETURNING body`, int(region), int64(id),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Scan returns every record of region ordered by id.
func (d *DB) Scan(ctx context.Context, region Region) ([]Entry, error) {
	rows, err := d.Client.QueryContext(ctx,
		`SELECT id, body FROM records WHERE region = $1 ORDER BY id`, int(region))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var (
			id   int64
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		res = append(res, Entry{ID: uint64(id), Data: body})
	}
	return res, rows.Err()
}

// Incr advances the region counter, seeding it at 1 on first use.
func (d *DB) Incr(ctx context.Context, region Region) (v uint64, err error) {
	tx, err := d.Client.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO counters (region, value) VALUES ($1, 1)
		ON CONFLICT (region) DO NOTHING
	`, int(region)); err != nil {
		return 0, err
	}
	var current int64
	if err = tx.QueryRowContext(ctx,
		`UPDATE counters SET value = value + 1 WHERE region = $1 RETURNING value - 1`, int(region),
	).Scan(&current); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(current), nil
}

// Peek reads the pending counter value; a counter never incremented is 1.
func (d *DB) Peek(ctx context.Context, region Region) (uint64, error) {
	var v int64
	err := d.Client.QueryRowContext(ctx, `SELECT value FROM counters WHERE region = $1`, int(region)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
