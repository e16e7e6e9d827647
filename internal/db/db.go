package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool for run tracking.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Run is one recorded analysis of one map.
type Run struct {
	ID               int64
	MapName          string
	Granularity      float64
	Speed            float64
	TickDuration     float64
	Ticks            int
	FirstContactTick int
	CreatedAt        time.Time
}

// InsertRun records a completed analysis and returns its id.
func (d *DB) InsertRun(ctx context.Context, r Run) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx,
		`INSERT INTO runs (map_name, granularity, speed, tick_duration, ticks, first_contact_tick)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		r.MapName, r.Granularity, r.Speed, r.TickDuration, r.Ticks, r.FirstContactTick,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting run for %q: %w", r.MapName, err)
	}
	return id, nil
}

// LatestRun returns the most recent run for a map, or nil if none exists.
func (d *DB) LatestRun(ctx context.Context, mapName string) (*Run, error) {
	var r Run
	err := d.pool.QueryRow(ctx,
		`SELECT id, map_name, granularity, speed, tick_duration, ticks, first_contact_tick, created_at
		 FROM runs WHERE map_name = $1
		 ORDER BY created_at DESC LIMIT 1`, mapName,
	).Scan(&r.ID, &r.MapName, &r.Granularity, &r.Speed, &r.TickDuration,
		&r.Ticks, &r.FirstContactTick, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying latest run for %q: %w", mapName, err)
	}
	return &r, nil
}

// InputHashes returns the stored digest per input file of a map.
func (d *DB) InputHashes(ctx context.Context, mapName string) (map[string]string, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT file, digest FROM input_hashes WHERE map_name = $1`, mapName)
	if err != nil {
		return nil, fmt.Errorf("querying input hashes for %q: %w", mapName, err)
	}
	defer rows.Close()

	digests := make(map[string]string)
	for rows.Next() {
		var file, digest string
		if err := rows.Scan(&file, &digest); err != nil {
			return nil, fmt.Errorf("scanning input hash for %q: %w", mapName, err)
		}
		digests[file] = digest
	}
	return digests, rows.Err()
}

// StoreInputHashes replaces the stored digests for a map.
func (d *DB) StoreInputHashes(ctx context.Context, mapName string, digests map[string]string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM input_hashes WHERE map_name = $1`, mapName); err != nil {
		return fmt.Errorf("clearing input hashes for %q: %w", mapName, err)
	}
	for file, digest := range digests {
		if _, err := tx.Exec(ctx,
			`INSERT INTO input_hashes (map_name, file, digest) VALUES ($1, $2, $3)`,
			mapName, file, digest); err != nil {
			return fmt.Errorf("storing input hash %q for %q: %w", file, mapName, err)
		}
	}
	return tx.Commit(ctx)
}
