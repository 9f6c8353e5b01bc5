// Package migrator applies the goose migrations each module embeds. Every
// module keeps its own version table, so auction and notification schemas
// migrate independently.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

// Module is one module's embedded schema.
type Module struct {
	Name  string
	FS    fs.FS
	Table string
}

// Run opens dbURL and applies modules in order.
func Run(ctx context.Context, dbURL string, log logger.Logger, modules ...Module) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	for _, m := range modules {
		if err := Up(ctx, db, m, log); err != nil {
			return err
		}
	}
	return nil
}

// Up applies m's pending migrations on an open connection. Integration tests
// call it against a testcontainers database.
func Up(ctx context.Context, db *sql.DB, m Module, log logger.Logger) error {
	store, err := database.NewStore(database.DialectPostgres, m.Table)
	if err != nil {
		return fmt.Errorf("%s: goose store: %w", m.Name, err)
	}
	p, err := goose.NewProvider("", db, m.FS, goose.WithStore(store))
	if err != nil {
		return fmt.Errorf("%s: goose provider: %w", m.Name, err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: apply migrations: %w", m.Name, err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied", "module", m.Name, "version", r.Source.Version, "duration", r.Duration)
	}

	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("%s: read schema version: %w", m.Name, err)
	}
	log.InfoContext(ctx, "schema up to date", "module", m.Name, "version", version, "applied", len(results))
	return nil
}
