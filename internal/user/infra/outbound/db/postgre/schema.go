package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
)

// Open abre Postgres fijando standard_conforming_strings=on en cada sesión: la barra invertida
// es literal y los literales se escriben con el dialecto Standard.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := connConfig(dsn)
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*cfg), nil
}

func connConfig(dsn string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	cfg.RuntimeParams["standard_conforming_strings"] = "on"
	return cfg, nil
}

// IsTransient reconoce errores seguros de reintentar y los de serialización/interbloqueo.
func IsTransient(err error) bool {
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
	}
	return false
}

func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		UserId SERIAL PRIMARY KEY,
		UserLogin TEXT UNIQUE NOT NULL,
		UserPassword TEXT NOT NULL,
		FirstName TEXT,
		LastName TEXT,
		RealName TEXT,
		Active SMALLINT NOT NULL DEFAULT 1,
		InsertUserId INTEGER,
		InsertTimestamp TIMESTAMP,
		UpdateUserId INTEGER,
		UpdateTimestamp TIMESTAMP
	)`)
	return err
}
