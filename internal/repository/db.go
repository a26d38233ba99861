package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour a DB speaks.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a database handle together with its dialect. Queries are written with
// '?' placeholders and rebound for postgres.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// InitDB opens (or creates) the database and ensures all required tables
// exist. For sqlite pass a file path, or ":memory:" for an in-memory
// database; for postgres pass a connection URL.
func InitDB(dialect Dialect, dsn string) (*DB, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &DB{DB: sqlDB, Dialect: dialect}

	if dialect == DialectSQLite {
		// SQLite has a single writer, and every pooled connection to
		// ":memory:" would get its own database.
		sqlDB.SetMaxOpenConns(1)

		// Enable WAL mode for better concurrent read performance.
		if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("set wal mode: %w", err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := createTables(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// rebind rewrites '?' placeholders as $1, $2, ... for postgres.
func (db *DB) rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func createTables(db *DB) error {
	seqColumn := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	amountType := "REAL"
	if db.Dialect == DialectPostgres {
		seqColumn = "seq BIGSERIAL PRIMARY KEY"
		amountType = "DOUBLE PRECISION"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			` + seqColumn + `,
			transaction_id TEXT NOT NULL,
			amount ` + amountType + ` NOT NULL,
			currency TEXT NOT NULL,
			location TEXT NOT NULL,
			card_type TEXT NOT NULL,
			recipient_account_number TEXT NOT NULL,
			sender_account_number TEXT NOT NULL,
			client_ip TEXT NOT NULL,
			phone TEXT NOT NULL,
			created_at TEXT NOT NULL,
			anomalous BOOLEAN NOT NULL,
			fraud_reasons TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_card_type ON transactions(card_type)`,

		`CREATE TABLE IF NOT EXISTS blacklist (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			value TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blacklist_type_value ON blacklist(type, value)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
