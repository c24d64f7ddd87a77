// Package db opens the visitor database. DATABASE_URL selects Postgres (postgres:// or
// postgresql://, via pgx) or a local SQLite file (sqlite://path, via modernc.org/sqlite).
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL dialect behind a database URL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ErrUnsupportedURL is returned for database URLs with an unknown scheme.
var ErrUnsupportedURL = errors.New("db: unsupported database URL")

// Target is a parsed database URL: the database/sql driver name and the DSN to pass to it.
type Target struct {
	Dialect Dialect
	Driver  string
	DSN     string
}

// ParseURL maps a DATABASE_URL to its driver and DSN.
func ParseURL(url string) (Target, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return Target{}, errors.New("db: DATABASE_URL is not set")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Target{Dialect: DialectPostgres, Driver: "pgx", DSN: url}, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" || strings.HasPrefix(path, "?") {
			return Target{}, fmt.Errorf("%w: sqlite URL %q has no path", ErrUnsupportedURL, url)
		}
		return Target{Dialect: DialectSQLite, Driver: "sqlite", DSN: sqliteDSN(path)}, nil
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}
}

// sqliteDSN adds the pragmas the app relies on unless the URL already sets its own.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Open opens and pings the database behind url. Caller must call Close when done.
func Open(url string) (*sql.DB, Dialect, error) {
	t, err := ParseURL(url)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, "", err
	}
	if t.Dialect == DialectSQLite {
		// One writer at a time; concurrent writers only produce SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, t.Dialect, nil
}
