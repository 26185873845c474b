// Package catalog is the optional shared dataset registry: a Postgres
// table recording which datasets exist across every routectl/preprocess
// instance pointed at the same database, as opposed to pkg/dsinfo's
// per-process local record. A deployment with only one instance has no
// need for it; pkg/store.Registry alone is authoritative there.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Khoshkhah/h3-routing-platform/pkg/catalog/migrations"
)

// Entry is one row of the dataset_catalog table.
type Entry struct {
	Name          string
	RunID         string
	District      string
	StorePath     string
	EdgeCount     int
	ShortcutCount int
	PartitionRes  int8
	HybridRes     int8
	Status        string
	LoadedAt      time.Time
	UnloadedAt    *time.Time
}

// Catalog wraps a pgx pool holding the shared dataset_catalog table.
type Catalog struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and ensures the dataset_catalog table exists,
// running any pending goose migrations first.
func Open(ctx context.Context, dsn string) (*Catalog, error) {
	if err := runMigrations(ctx, dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging catalog database: %w", err)
	}
	return &Catalog{pool: pool}, nil
}

var gooseOnce sync.Once

func runMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for catalog migrations: %w", err)
	}
	defer sqlDB.Close()

	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		dialectErr = goose.SetDialect("postgres")
	})
	if dialectErr != nil {
		return fmt.Errorf("setting goose dialect: %w", dialectErr)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running catalog migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Catalog) Close() {
	c.pool.Close()
}

// Upsert records name as loaded with the given metadata, replacing any
// prior row of the same name.
func (c *Catalog) Upsert(ctx context.Context, e Entry) error {
	e.Status = "loaded"
	e.LoadedAt = time.Now()
	_, err := c.pool.Exec(ctx, `
		INSERT INTO dataset_catalog
			(name, run_id, district, store_path, edge_count, shortcut_count,
			 partition_res, hybrid_res, status, loaded_at, unloaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL)
		ON CONFLICT (name) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			district = EXCLUDED.district,
			store_path = EXCLUDED.store_path,
			edge_count = EXCLUDED.edge_count,
			shortcut_count = EXCLUDED.shortcut_count,
			partition_res = EXCLUDED.partition_res,
			hybrid_res = EXCLUDED.hybrid_res,
			status = EXCLUDED.status,
			loaded_at = EXCLUDED.loaded_at,
			unloaded_at = NULL`,
		e.Name, e.RunID, e.District, e.StorePath, e.EdgeCount, e.ShortcutCount,
		e.PartitionRes, e.HybridRes, e.Status, e.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting catalog entry %q: %w", e.Name, err)
	}
	return nil
}

// MarkUnloaded flags name as unloaded without deleting its history.
func (c *Catalog) MarkUnloaded(ctx context.Context, name string) error {
	tag, err := c.pool.Exec(ctx, `
		UPDATE dataset_catalog SET status = 'unloaded', unloaded_at = $2
		WHERE name = $1`, name, time.Now())
	if err != nil {
		return fmt.Errorf("marking catalog entry %q unloaded: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no catalog entry for %q", name)
	}
	return nil
}

// Get retrieves name's catalog entry.
func (c *Catalog) Get(ctx context.Context, name string) (*Entry, error) {
	row := c.pool.QueryRow(ctx, `
		SELECT name, run_id, district, store_path, edge_count, shortcut_count,
		       partition_res, hybrid_res, status, loaded_at, unloaded_at
		FROM dataset_catalog WHERE name = $1`, name)

	var e Entry
	err := row.Scan(&e.Name, &e.RunID, &e.District, &e.StorePath, &e.EdgeCount,
		&e.ShortcutCount, &e.PartitionRes, &e.HybridRes, &e.Status, &e.LoadedAt, &e.UnloadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no catalog entry for %q", name)
		}
		return nil, fmt.Errorf("querying catalog entry %q: %w", name, err)
	}
	return &e, nil
}

// List returns every dataset_catalog row, most recently loaded first.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT name, run_id, district, store_path, edge_count, shortcut_count,
		       partition_res, hybrid_res, status, loaded_at, unloaded_at
		FROM dataset_catalog ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.RunID, &e.District, &e.StorePath, &e.EdgeCount,
			&e.ShortcutCount, &e.PartitionRes, &e.HybridRes, &e.Status, &e.LoadedAt, &e.UnloadedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
