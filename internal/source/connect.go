package source

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"userstream/internal/config"
	"userstream/internal/stream"
)

// Connect opens a MySQL handle for cfg and pings it.
func Connect(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return connect(ctx, cfg.DSN())
}

// ConnectServer is Connect without selecting a database.
func ConnectServer(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return connect(ctx, cfg.ServerDSN())
}

func connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &stream.SourceError{Op: "connect", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &stream.SourceError{Op: "connect", Err: err}
	}
	return db, nil
}

// ServerVersion reports the server's VERSION().
func ServerVersion(ctx context.Context, db *sql.DB) (string, error) {
	var v string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&v); err != nil {
		return "", &stream.SourceError{Op: "version", Err: err}
	}
	return v, nil
}
