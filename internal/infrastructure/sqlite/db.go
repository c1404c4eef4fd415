// Package sqlite implements clinic.Store on a SQLite database using the
// ncruces/go-sqlite3 driver.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens the database at path, creating the parent directory and the
// tables if they do not exist yet.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Debug(log.CatDB, "Opened database", "path", path)
	return &DB{conn: conn}, nil
}

// Store returns a clinic.Store backed by this database.
func (d *DB) Store() *Store {
	return NewStore(d.conn)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
