// Package migrate runs database migrations from embedded SQL files using golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"ecoharmony-park/backend/internal/db"
)

// Run applies migrations in the given direction to the database at url, using the migration set of
// its dialect. direction must be "up" or "down". Being already at the target version is not an error.
func Run(url string, direction string) error {
	if url == "" {
		return errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
	m, err := open(url)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the applied migration version of the database at url. applied is false on a
// database that has never been migrated; dirty is true when a migration failed halfway.
func Version(url string) (version uint, applied, dirty bool, err error) {
	m, err := open(url)
	if err != nil {
		return 0, false, false, err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, true, dirty, nil
}

func open(url string) (*migrate.Migrate, error) {
	target, err := db.ParseURL(url)
	if err != nil {
		return nil, err
	}
	sourceDriver, err := iofs.New(db.MigrationFS, db.MigrationDir(target.Dialect))
	if err != nil {
		return nil, fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, url)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}
