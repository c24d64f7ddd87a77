package db

import "embed"

// MigrationFS embeds the SQL migrations, one directory per dialect (migrations/postgres, migrations/sqlite).
// Used by the migrate runner (cmd/migrate) to apply migrations.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var MigrationFS embed.FS

// MigrationDir returns the embedded migration directory for d.
func MigrationDir(d Dialect) string {
	return "migrations/" + string(d)
}
