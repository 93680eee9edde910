package lite

import (
	"context"
	"database/sql"
	"time"

	"bindbench/bench"
)

const defaultPath = "bindbench.db"

// DSN returns a file DSN for the database named in c, or the default file.
func DSN(c bench.ConnConfig) string {
	path := c.Database
	if path == "" {
		path = defaultPath
	}
	return "file:" + path + "?_busy_timeout=5000"
}

// Connect opens a single-connection handle.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
