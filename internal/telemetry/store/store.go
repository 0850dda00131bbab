// Package store persists telemetry snapshots to PostgreSQL, the way
// the pack's monitoring tool keeps a history table behind its own
// pkg/database wrapper. It is optional: the daemon runs with a nil
// Recorder when persistence is disabled, since nothing in the data
// plane depends on the snapshot ever being durable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kurkpitaine/veloce-sub004/internal/telemetry"
)

// Recorder is the narrow seam the daemon's poll loop writes snapshots
// through; Postgres is the only implementation.
type Recorder interface {
	Record(ctx context.Context, s telemetry.Snapshot) error
	Close() error
}

// Store is a Recorder backed by a PostgreSQL table.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using a libpq-style DSN (the
// config.DatabaseConfig.DSN field) and ensures the snapshot table exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS geonet_snapshots (
		sampled_at        TIMESTAMPTZ NOT NULL,
		neighbour_count   INTEGER NOT NULL,
		location_table    INTEGER NOT NULL,
		local_cbr         DOUBLE PRECISION NOT NULL,
		ls_pending        INTEGER NOT NULL,
		ls_failed         INTEGER NOT NULL,
		dcc_duty_cycle    DOUBLE PRECISION NOT NULL,
		dcc_interval_ns   BIGINT NOT NULL,
		ls_buf_entries    INTEGER NOT NULL,
		uc_buf_entries    INTEGER NOT NULL,
		bc_buf_entries    INTEGER NOT NULL
	);`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Record inserts one snapshot row.
func (s *Store) Record(ctx context.Context, snap telemetry.Snapshot) error {
	const insert = `
	INSERT INTO geonet_snapshots (
		sampled_at, neighbour_count, location_table, local_cbr,
		ls_pending, ls_failed, dcc_duty_cycle, dcc_interval_ns,
		ls_buf_entries, uc_buf_entries, bc_buf_entries
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := s.db.ExecContext(ctx, insert,
		snap.Time, snap.NeighbourCount, snap.LocationTable, snap.LocalCBR,
		snap.LSPending, snap.LSFailed, snap.DCCDutyCycle, int64(snap.DCCInterval),
		snap.LSBufOccupancy, snap.UCBufOccupancy, snap.BCBufOccupancy,
	)
	if err != nil {
		return fmt.Errorf("store: record: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
