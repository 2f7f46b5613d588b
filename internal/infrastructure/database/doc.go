// Package database provides relational database connectivity for the devices API.
//
// This package manages:
//   - SQLite connections with WAL mode for concurrent access
//   - Postgres connections via the pgx stdlib driver
//   - Schema migrations (embedded, per-driver SQL directories)
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - SQLite file permissions are set to 0600 (owner read/write only)
//   - The Postgres DSN should be supplied via environment variable
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive-only to support safe rollbacks:
//   - New columns must be NULLABLE or have DEFAULT values
//   - Each migration file has both .up.sql and .down.sql
package database
