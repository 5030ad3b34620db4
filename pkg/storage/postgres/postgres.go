// Package postgres provides a PostgreSQL EventStore. It uses pgx/v5 for
// connection pooling; the request_events schema is embedded and versioned.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/config"
	"github.com/youwol/httpclients/pkg/debug"
	"github.com/youwol/httpclients/pkg/storage"
)

// DefaultMaxConns is the pool size used when Config.MaxConns is unset. The
// journal appends from a single goroutine, so readers get the rest.
const DefaultMaxConns = 5

// Config configures a Store. It mirrors the journal.postgres section of the
// configuration file.
type Config struct {
	DSN      string
	MaxConns int32

	// MigrateOnStart upgrades the request_events table when the store opens.
	MigrateOnStart bool
}

// FromJournal returns the Config of the journal.postgres section.
func FromJournal(c config.PostgresConfig) Config {
	return Config{DSN: c.DSN, MaxConns: c.MaxConns, MigrateOnStart: c.MigrateOnStart}
}

// Store is a PostgreSQL-backed EventStore over the request_events table.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.EventStore = (*Store)(nil)

// New opens a store and, with MigrateOnStart, upgrades its schema.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = DefaultMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to journal database: %w", err)
	}

	s := &Store{pool: pool}
	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	debug.Log("storage", "journal", "type", "postgres", "max_conns", poolCfg.MaxConns)
	return s, nil
}

// Append stores an event.
func (s *Store) Append(ctx context.Context, event api.RequestEvent, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO request_events (request_id, command_type, step, transferred, total, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		event.RequestID, string(event.CommandType), string(event.Step),
		event.TransferredCount, event.TotalCount, at,
	)
	if err != nil {
		return fmt.Errorf("inserting request event: %w", err)
	}
	debug.Log("storage", "event appended", "request_id", event.RequestID, "step", event.Step)
	return nil
}

// Events returns the records of one request in append order.
func (s *Store) Events(ctx context.Context, requestID string) ([]storage.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT seq, request_id, command_type, step, transferred, total, recorded_at
		FROM request_events
		WHERE request_id = $1
		ORDER BY seq
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("querying request events: %w", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records, nil
}

// Recent returns up to limit records, newest first. A limit <= 0 returns
// every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	query := `
		SELECT seq, request_id, command_type, step, transferred, total, recorded_at
		FROM request_events
		ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent events: %w", err)
	}
	return collectRecords(rows)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func collectRecords(rows pgx.Rows) ([]storage.Record, error) {
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.Record, error) {
		var (
			r          storage.Record
			command    string
			step       string
			recordedAt time.Time
		)
		err := row.Scan(&r.Seq, &r.Event.RequestID, &command, &step,
			&r.Event.TransferredCount, &r.Event.TotalCount, &recordedAt)
		r.Event.CommandType = api.Command(command)
		r.Event.Step = api.Step(step)
		r.RecordedAt = recordedAt
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning request events: %w", err)
	}
	return records, nil
}
