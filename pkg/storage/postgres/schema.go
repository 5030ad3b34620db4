package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/youwol/httpclients/pkg/debug"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// requestEventsSchema lists the versions of the request_events table, oldest
// first. Each one is applied once and recorded in request_events_schema.
var requestEventsSchema = []struct {
	version int
	file    string
}{
	{1, "schema/request_events_v1.sql"},
}

// schemaVersion is the version a migrated journal is at.
func schemaVersion() int {
	return requestEventsSchema[len(requestEventsSchema)-1].version
}

// migrate brings the request_events table to schemaVersion. Concurrent
// journals opening the same database serialize on an advisory lock.
func (s *Store) migrate(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('request_events_schema'))"); err != nil {
			return fmt.Errorf("locking request_events schema: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS request_events_schema (
				version    INTEGER PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`); err != nil {
			return fmt.Errorf("creating request_events_schema: %w", err)
		}

		var current int
		if err := tx.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM request_events_schema").Scan(&current); err != nil {
			return fmt.Errorf("reading request_events schema version: %w", err)
		}
		for _, v := range requestEventsSchema {
			if v.version <= current {
				continue
			}
			ddl, err := schemaFiles.ReadFile(v.file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", v.file, err)
			}
			debug.Log("storage", "upgrading request_events", "from", current, "to", v.version)
			if _, err := tx.Exec(ctx, string(ddl)); err != nil {
				return fmt.Errorf("applying request_events v%d: %w", v.version, err)
			}
			if _, err := tx.Exec(ctx, "INSERT INTO request_events_schema (version) VALUES ($1)", v.version); err != nil {
				return fmt.Errorf("recording request_events v%d: %w", v.version, err)
			}
			current = v.version
		}
		return nil
	})
}

// SchemaVersion returns the request_events version recorded in the database,
// 0 for a journal that was never migrated.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT to_regclass('request_events_schema') IS NOT NULL").Scan(&exists); err != nil {
		return 0, fmt.Errorf("reading request_events schema version: %w", err)
	}
	if !exists {
		return 0, nil
	}
	var version int
	if err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM request_events_schema").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading request_events schema version: %w", err)
	}
	return version, nil
}
