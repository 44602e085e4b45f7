// Package migrations embeds the per-dialect DDL scripts and applies them
// with golang-migrate on startup.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite3/*.sql mysql/*.sql postgres/*.sql
var fs embed.FS

// Up applies all pending migrations for the given dialect
// ("sqlite", "mysql" or "postgres") against an open connection.
func Up(db *sql.DB, dialect string) error {
	var (
		driver database.Driver
		err    error
	)
	dir := dialect
	switch dialect {
	case "sqlite":
		dir = "sqlite3"
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case "mysql":
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "postgres":
		driver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	default:
		return fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("migrations: driver init: %w", err)
	}

	source, err := iofs.New(fs, dir)
	if err != nil {
		return fmt.Errorf("migrations: source init: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
