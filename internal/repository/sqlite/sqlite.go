package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Uday-sidagana/Linear-Tickets-Vis-Endpoints/internal/config"
)

// NewDB открывает и настраивает встроенную базу SQLite.
func NewDB(cfg config.DBConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)

	if err != nil {
		return nil, err
	}

	// SQLite — однописательное хранилище; одно соединение исключает SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
