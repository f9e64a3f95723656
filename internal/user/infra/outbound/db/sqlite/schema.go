package sqlite

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open abre (o crea) la base de datos SQLite. path puede ser ":memory:".
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Una sola conexión: con ":memory:" cada conexión sería una base distinta.
	db.SetMaxOpenConns(1)
	return db, nil
}

// IsTransient reconoce SQLITE_BUSY y SQLITE_LOCKED.
func IsTransient(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            UserId INTEGER PRIMARY KEY AUTOINCREMENT,
            UserLogin TEXT NOT NULL UNIQUE,
            UserPassword TEXT NOT NULL,
            FirstName TEXT,
            LastName TEXT,
            RealName TEXT,
            Active INTEGER NOT NULL DEFAULT 1,
            InsertUserId INTEGER,
            InsertTimestamp DATETIME,
            UpdateUserId INTEGER,
            UpdateTimestamp DATETIME
        )
    `)
	return err
}
