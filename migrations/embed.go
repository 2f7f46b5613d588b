// Package migrations embeds SQL migration files into the binary.
//
// This allows the service to run migrations without the SQL files being
// present on the filesystem - they're compiled into the executable.
// Each supported driver has its own subdirectory, since the schema DDL
// differs between SQLite and Postgres.
package migrations

import (
	"embed"

	"github.com/RomanHreits/devices-api/internal/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	// The migration runner selects the subdirectory matching its driver.
	database.MigrationsFS = migrationsFS
}
