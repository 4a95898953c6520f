// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required); supports in-memory mode.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath is the path that selects an in-memory, process-lifetime store.
const MemoryPath = ":memory:"

// DB wraps the SQLite database connection.
type DB struct {
	queries
	db     *sql.DB
	dbPath string
}

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	if dbPath == MemoryPath {
		return OpenMemory()
	}

	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return initialize(db, dbPath, true)
}

// OpenMemory opens an empty in-memory database. Data is lost on Close.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return initialize(db, MemoryPath, false)
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault() (*DB, error) {
	return Open(DefaultDBPath())
}

func initialize(db *sql.DB, dbPath string, wal bool) (*DB, error) {
	// One connection: SQLite has a single writer, pragmas are per connection,
	// and every connection to ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{queries: queries{q: db}, db: db, dbPath: dbPath}

	if err := d.configurePragmas(wal); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "healthplus")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "healthplus.db")
}

// Path returns the database path, or MemoryPath for in-memory stores.
func (d *DB) Path() string {
	return d.dbPath
}

// InMemory reports whether the store lives only in process memory.
func (d *DB) InMemory() bool {
	return d.dbPath == MemoryPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Update runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so callers never observe partial writes.
func (d *DB) Update(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{queries: queries{q: sqlTx}, tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// configurePragmas sets up SQLite for cascade deletes and better performance.
func (d *DB) configurePragmas(wal bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if wal {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
