package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var baseSchema string

// migrations[i] upgrades a database from PRAGMA user_version i to i+1. Append
// new entries; never edit a released one.
var migrations = []string{
	baseSchema,
}

// ErrSchemaMismatch marks a history database written by a newer build.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// migrate brings the database up to len(migrations). A fresh file starts at
// user_version 0.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: %s is at version %d but this build only knows %d; upgrade locationmapper or move the file aside",
			ErrSchemaMismatch, s.path, version, len(migrations))
	}
	for v := version; v < len(migrations); v++ {
		if err := s.applyMigration(ctx, v+1, migrations[v]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, target int, statements string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history migration %d: %w", target, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, statements); err != nil {
		return fmt.Errorf("apply history migration %d: %w", target, err)
	}
	// PRAGMA takes no bound parameters; target is an int we produced.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("set history schema version %d: %w", target, err)
	}
	return tx.Commit()
}
