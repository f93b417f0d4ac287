package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/matheus3301/modernchat/internal/store/migrations"
)

// ErrDirtySchema means an earlier migration stopped halfway. The file is
// left alone until someone repairs it.
var ErrDirtySchema = errors.New("store: sqlite schema is dirty")

// Schema is the kv table's migration state after Migrate.
type Schema struct {
	Version uint
	// Applied is set when this call ran at least one migration.
	Applied bool
}

// Migrate brings the kv table up to the newest embedded migration.
func (db *SQLite) Migrate() (Schema, error) {
	m, err := db.migrator()
	if err != nil {
		return Schema{}, err
	}
	if v, dirty, err := m.Version(); err == nil && dirty {
		return Schema{Version: v}, fmt.Errorf("%w at version %d", ErrDirtySchema, v)
	}

	err = m.Up()
	applied := !errors.Is(err, migrate.ErrNoChange)
	if err != nil && applied {
		return Schema{}, fmt.Errorf("migrate kv schema: %w", err)
	}
	v, _, err := m.Version()
	if err != nil {
		return Schema{}, fmt.Errorf("read schema version: %w", err)
	}
	return Schema{Version: v, Applied: applied}, nil
}

func (db *SQLite) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("migration instance: %w", err)
	}
	return m, nil
}
