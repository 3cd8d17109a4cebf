package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/gaku/schemas"
)

// Migrate applies the embedded SQL migrations in file name order. Every
// statement uses IF NOT EXISTS so repeated runs are harmless.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	entries, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob(migrations) > %w", err)
	}
	sort.Strings(entries)

	for _, entry := range entries {
		statements, err := fs.ReadFile(schemas.Migrations, entry)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", entry, err)
		}
		if _, err := db.ExecContext(ctx, string(statements)); err != nil {
			return fmt.Errorf("db.ExecContext(migration %s) > %w", entry, err)
		}
	}
	return nil
}
