package mysql

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Open abre MySQL forzando parseTime para que DATETIME se lea como time.Time.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// IsTransient reconoce conexiones caídas, interbloqueos y esperas de bloqueo agotadas.
func IsTransient(err error) bool {
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		switch merr.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return true
		}
	}
	return false
}

func InitMySQL(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS users (
		UserId INT AUTO_INCREMENT PRIMARY KEY,
		UserLogin VARCHAR(100) NOT NULL UNIQUE,
		UserPassword VARCHAR(255) NOT NULL,
		FirstName VARCHAR(100) NULL,
		LastName VARCHAR(100) NULL,
		RealName VARCHAR(200) NULL,
		Active SMALLINT NOT NULL DEFAULT 1,
		InsertUserId INT NULL,
		InsertTimestamp DATETIME NULL,
		UpdateUserId INT NULL,
		UpdateTimestamp DATETIME NULL
	)`)
	return err
}
