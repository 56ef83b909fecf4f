package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded schema migrations for driver. Passing a nil
// logger keeps goose's default stdout logger.
func Migrate(ctx context.Context, db *sql.DB, driver string, logger goose.Logger) error {
	switch driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	goose.SetBaseFS(migrationsFS)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := gooseUpContext(ctx, db, "migrations/"+driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
