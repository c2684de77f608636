package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open opens (creating if needed) the SQLite database at path and runs
// the schema migration. The store keeps a single long-lived connection
// for the process lifetime; SQLite serializes writers, and pinning one
// connection keeps the PRAGMAs and in-memory test databases stable.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func migrate(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT DEFAULT 'Individual',
			email TEXT,
			phone TEXT,
			status TEXT DEFAULT 'Active',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			line1 TEXT NOT NULL,
			line2 TEXT,
			city TEXT,
			state TEXT,
			postal_code TEXT,
			country TEXT DEFAULT 'US',
			is_primary INTEGER DEFAULT 0,
			FOREIGN KEY(customer_id) REFERENCES customers(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			role TEXT,
			FOREIGN KEY(customer_id) REFERENCES customers(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sku TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			price_cents INTEGER NOT NULL,
			currency TEXT DEFAULT 'USD',
			is_active INTEGER DEFAULT 1,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			status TEXT DEFAULT 'Pending',
			total_cents INTEGER DEFAULT 0,
			currency TEXT DEFAULT 'USD',
			notes TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(customer_id) REFERENCES customers(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price_cents INTEGER NOT NULL,
			line_total_cents INTEGER NOT NULL,
			FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY(product_id) REFERENCES products(id)
		);`,
		`CREATE TABLE IF NOT EXISTS cases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			order_id INTEGER,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT DEFAULT 'Open',
			priority TEXT DEFAULT 'Medium',
			assignee TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(customer_id) REFERENCES customers(id) ON DELETE CASCADE,
			FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE SET NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			activity TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// nowISO returns the current UTC time as an ISO-8601 string with second
// precision, the timestamp format used across all tables.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// recordActivity appends an audit-trail entry. ext may be the store
// handle or an open transaction.
func recordActivity(ctx context.Context, ext sqlx.ExtContext, entityType string, entityID int64, activity string) {
	_, _ = ext.ExecContext(ctx,
		"INSERT INTO activities(entity_type, entity_id, activity, created_at) VALUES (?,?,?,?)",
		entityType, entityID, activity, nowISO())
}

// valueOr returns fields[key] when the key is present and non-null,
// else def. Defaulted columns map to non-pointer record fields, so an
// explicit null coerces to the column default instead of storing a NULL
// the typed read-back could not scan. Absent required columns insert
// NULL so the NOT NULL constraint surfaces as the write error the
// caller propagates.
func valueOr(fields map[string]any, key string, def any) any {
	if v, ok := fields[key]; ok && v != nil {
		return v
	}
	return def
}

// defaultedCols are the allow-listed columns with schema defaults that
// map to non-pointer record fields. An explicit null in a partial
// update is ignored for these, the update-time counterpart of the
// create-time coercion in valueOr; truly nullable columns (email,
// notes, assignee, ...) still accept null to clear the value.
var defaultedCols = map[string]bool{
	"type":      true,
	"status":    true,
	"currency":  true,
	"is_active": true,
	"priority":  true,
}

// toInt64 coerces a decoded JSON value to an integer. JSON numbers
// arrive as float64; numeric strings are accepted the way the original
// wire format tolerated them.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// requireInt reads a mandatory integer field from the input map.
func requireInt(fields map[string]any, key string) (int64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	i, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("field %q is not an integer", key)
	}
	return i, nil
}

// intOrDefault reads an optional integer field, falling back to def when
// the key is absent or not coercible.
func intOrDefault(fields map[string]any, key string, def int64) int64 {
	if v, ok := fields[key]; ok {
		if i, ok := toInt64(v); ok {
			return i
		}
	}
	return def
}

// boolAsInt reads an optional boolean field and coerces it to the 0/1
// integer form the schema stores for boolean columns. An absent key
// takes the default; an explicit null is falsy.
func boolAsInt(fields map[string]any, key string, def bool) int64 {
	b := def
	if v, ok := fields[key]; ok && v != nil {
		switch t := v.(type) {
		case bool:
			b = t
		case float64:
			b = t != 0
		case string:
			b = t != ""
		default:
			b = v != nil
		}
	}
	if b {
		return 1
	}
	return 0
}
