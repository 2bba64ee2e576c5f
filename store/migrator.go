package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Migration system overview:
//
// Schema files live in store/migration/{driver}/. A fresh database gets the
// full LATEST.sql; incremental migrations are named "NN__description.sql" and
// applied in lexicographic order inside one transaction. Applied file names
// are tracked in the migration_history table.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit is the split character between the patch number and
	// the description in a migration file name, e.g. "01__add_notes.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the full schema applied to new installations.
	LatestSchemaFileName = "LATEST.sql"
)

// Migrate initializes a fresh database with the latest schema and applies any
// pending incremental migrations to an existing one.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	if !initialized {
		return s.applyLatestSchema(ctx)
	}
	return s.applyMigrations(ctx)
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %s", filePath)
	}

	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Wrapf(err, "failed to execute schema file %s", filePath)
	}

	// Record every known migration as applied so upgrades skip them.
	filePaths, err := fs.Glob(migrationFS, s.getMigrationBasePath()+"*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	for _, fp := range filePaths {
		if strings.HasSuffix(fp, LatestSchemaFileName) {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migration_history (version) VALUES ("+s.placeholder(1)+")", fp); err != nil {
			return errors.Wrapf(err, "failed to record migration %s", fp)
		}
	}

	return tx.Commit()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	filePaths, err := fs.Glob(migrationFS, s.getMigrationBasePath()+"*.sql")
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	sort.Strings(filePaths)

	applied, err := s.listAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	tx, err := s.driver.GetDB().Begin()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	migrationsApplied := 0
	for _, filePath := range filePaths {
		if strings.HasSuffix(filePath, LatestSchemaFileName) || applied[filePath] {
			continue
		}
		if !strings.Contains(filePath, MigrateFileNameSplit) {
			return errors.Errorf("invalid migration filename format: %s", filePath)
		}

		slog.Info("applying migration", slog.String("file", filePath))
		bytes, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %s", filePath)
		}
		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "failed to execute migration %s", filePath)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migration_history (version) VALUES ("+s.placeholder(1)+")", filePath); err != nil {
			return errors.Wrapf(err, "failed to record migration %s", filePath)
		}
		migrationsApplied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration transaction")
	}
	if migrationsApplied > 0 {
		slog.Info("migration completed", slog.Int("migrationsApplied", migrationsApplied))
	}
	return nil
}

func (s *Store) listAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.driver.GetDB().QueryContext(ctx, "SELECT version FROM migration_history")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query migration history")
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, errors.Wrap(err, "failed to scan migration history")
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

func (s *Store) placeholder(n int) string {
	if s.profile.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// execute executes a SQL script within a transaction context.
// PostgreSQL does not accept multiple statements in a single ExecContext
// call, so scripts are split and executed statement by statement there.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, stmt string) error {
	if s.profile.Driver == "postgres" {
		for i, single := range splitSQL(stmt) {
			if single == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, single); err != nil {
				return errors.Wrapf(err, "failed to execute statement %d", i+1)
			}
		}
		return nil
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}

// splitSQL splits a multi-statement SQL script on semicolons, skipping
// comment lines. The schema files contain no quoted semicolons or function
// bodies, so no full tokenizer is needed.
func splitSQL(script string) []string {
	var statements []string
	var current strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			statements = append(statements, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if tail := strings.TrimSpace(current.String()); tail != "" {
		statements = append(statements, tail)
	}
	return statements
}
