package app

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/azemskov/tasktrack/internal/config"
	"github.com/azemskov/tasktrack/migrations"
)

// MustMigratePostgres runs the embedded goose migrations through a
// short-lived database/sql connection; the pgx pool stays untouched.
func MustMigratePostgres() {
	cfg := config.Global().Postgres

	db, err := sql.Open("pgx", postgresConnURL(cfg))
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to open migration connection")
		panic(err)
	}
	defer func() { _ = db.Close() }()

	err = migrations.Migrate(db)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to run migrations")
		panic(err)
	}

	globalLogger.Info().Msg("ran migrations")
}
