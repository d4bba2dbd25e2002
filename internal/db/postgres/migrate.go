package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one ordered schema step.
type Migration struct {
	Name string
	SQL  string
}

// migrator is the subset of a pool needed to apply migrations.
type migrator interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Migrations returns the embedded migrations sorted by file name.
func Migrations() ([]Migration, error) {
	return loadMigrations(migrationsFS, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{Name: name, SQL: string(body)})
	}
	return out, nil
}

// Migrate applies pending embedded migrations, each in its own transaction.
func (s *Store) Migrate(ctx context.Context, logger *zap.Logger) error {
	migrations, err := Migrations()
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return applyMigrations(ctx, s.pool, migrations, logger)
}

func applyMigrations(ctx context.Context, m migrator, migrations []Migration, logger *zap.Logger) error {
	if _, err := m.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("create schema_migrations: %w", err)}
	}

	applied, err := appliedMigrations(ctx, m)
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}

	for _, mig := range migrations {
		if _, ok := applied[mig.Name]; ok {
			logger.Debug("Migration already applied", zap.String("migration", mig.Name))
			continue
		}
		if err := applyOne(ctx, m, mig); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
		logger.Info("Migration applied", zap.String("migration", mig.Name))
	}
	return nil
}

func applyOne(ctx context.Context, m migrator, mig Migration) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", mig.Name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("execute %s: %w", mig.Name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, mig.Name); err != nil {
		return fmt.Errorf("record %s: %w", mig.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", mig.Name, err)
	}
	return nil
}

func appliedMigrations(ctx context.Context, m migrator) (map[string]struct{}, error) {
	rows, err := m.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan applied migrations: %w", err)
	}

	applied := make(map[string]struct{}, len(names))
	for _, n := range names {
		applied[n] = struct{}{}
	}
	return applied, nil
}
