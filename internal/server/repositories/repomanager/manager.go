// Package repomanager picks the storage dialect from the DSN, opens the
// database and vends repositories bound to a DBTX.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// Driver names registered by the blank imports in postgres.go and sqlite.go.
const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// ParseDSN returns the database/sql driver name for dsn and the data source
// to hand to it. postgres:// and postgresql:// URLs and key=value strings
// with a host select pgx; sqlite://, file: and :memory: select sqlite.
func ParseDSN(dsn string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPgx, dsn, nil
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return DriverPgx, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DriverSQLite, dsn, nil
	}
	return "", "", fmt.Errorf("unsupported database DSN %q", redactDSN(dsn))
}

// Open connects to dsn, checks the connection and returns the matching
// RepositoryManager.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlOpen(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	var m RepositoryManager
	switch driver {
	case DriverSQLite:
		// one connection keeps a :memory: database alive and serialises writers
		db.SetMaxOpenConns(1)
		m, err = NewSQLiteRepositoryManager(db)
	default:
		m, err = NewPostgresRepositoryManager(db)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, m, nil
}

func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		return "***" + dsn[i:]
	}
	return dsn
}
