// Package sqldb implementa el store de registros sobre database/sql:
// Postgres (pgx) en producción y SQLite (modernc, sin cgo) para un nodo local.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect acepta los nombres de STORE_DRIVER.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "pg", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unknown sql dialect %q", s)
	}
}

// DB es el handle compartido por todos los repos. También es el
// tx.Transactor del store.
type DB struct {
	sqlDB   *sql.DB
	dialect Dialect
}

// Open abre el pool y aplica las migraciones embebidas del dialecto.
func Open(dialect Dialect, dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("dsn is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch dialect {
	case DialectPostgres:
		sqlDB, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		// defaults razonables para MVP (ajustable luego)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	case DialectSQLite:
		sqlDB, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, err
		}
		// un solo escritor: evita SQLITE_BUSY entre transacciones
		sqlDB.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unknown sql dialect %q", dialect)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	db := &DB{sqlDB: sqlDB, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || strings.HasPrefix(path, "file:") || path == ":memory:" {
		return path
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// PingContext se usa en /health.
func (db *DB) PingContext(ctx context.Context) error {
	return db.sqlDB.PingContext(ctx)
}

type txKey struct{}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithinTx abre una transacción y la deja en ctx para los repos.
// Una tx anidada se une a la externa.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (db *DB) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.sqlDB
}

func (db *DB) inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// lockClause bloquea la fila leída dentro de una tx en Postgres.
// SQLite ya serializa escritores.
func (db *DB) lockClause(ctx context.Context) string {
	if db.dialect == DialectPostgres && db.inTx(ctx) {
		return " FOR UPDATE"
	}
	return ""
}

var pgPlaceholder = regexp.MustCompile(`\$(\d+)`)

// q adapta los placeholders $N al dialecto (SQLite usa ?N).
func (db *DB) q(query string) string {
	if db.dialect == DialectSQLite {
		return pgPlaceholder.ReplaceAllString(query, "?$1")
	}
	return query
}

// Los timestamps se guardan como segundos unix (BIGINT): es la resolución
// con la que se comparan las ventanas de enfriamiento.
func toUnix(t time.Time) int64 {
	return t.UTC().Unix()
}

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func toNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toUnix(*t), Valid: true}
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

// BIGINT es con signo; un contador por encima de MaxInt64 no se puede guardar.
func toStorableInt(field string, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%s exceeds storage range: %w", field, rules.ErrInvalidState)
	}
	return int64(v), nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, rules.ErrNotFound)
}
