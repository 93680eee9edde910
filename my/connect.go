package my

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"bindbench/bench"

	"github.com/go-sql-driver/mysql"
)

// DSN builds a driver DSN from discrete settings. Parameters are bound
// server-side (no client interpolation) and UPDATE reports matched rows.
// Cleartext password auth is only allowed when TLS is mandatory.
func DSN(c bench.ConnConfig) string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.InterpolateParams = false
	cfg.ClientFoundRows = true
	cfg.TLSConfig = c.TLS
	cfg.AllowCleartextPasswords = secureTLS(c.TLS)
	cfg.Timeout = 30 * time.Second
	return cfg.FormatDSN()
}

// Connect opens a handle limited to one connection.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// secureTLS reports whether mode always encrypts the connection. "preferred"
// may fall back to plain TCP.
func secureTLS(mode string) bool {
	switch mode {
	case "", "false", "preferred":
		return false
	}
	return true
}
