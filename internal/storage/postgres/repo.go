// Package postgres implements the bulk loader using pgx v5. Each dataset
// import runs against a single connection acquired from a shared pool:
// table/index provisioning, truncation, and a raw COPY FROM STDIN fed from
// the transformed staging file.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"imdbload/internal/catalog"
)

// LoadError reports a failed DDL statement or bulk copy. Op identifies the
// step ("create table", "truncate", "create index", "copy").
type LoadError struct {
	Table string
	Op    string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Table, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Repository owns the connection pool for one run.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository opens a pool for the given DSN. Close must be called exactly
// once when the run finishes, successfully or not.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Close releases the pool. Safe to call via defer at the top of a run.
func (r *Repository) Close() { r.pool.Close() }

// Ping verifies connectivity; used by the CLI's validate path.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ImportFile provisions the dataset's table and indexes, truncates prior
// rows, and streams the transformed file into the table via COPY. It
// returns the number of rows the copy reported.
//
// Ordering is strict and each step must fully complete before the next:
// CREATE TABLE IF NOT EXISTS, TRUNCATE, each CREATE INDEX IF NOT EXISTS
// (first failure aborts the remaining indexes and the copy), COPY FROM
// STDIN. All steps run on one acquired connection, released on return.
// Atomicity is whatever the server's COPY provides; there is no
// application-level rollback across the steps.
func (r *Repository) ImportFile(ctx context.Context, ds catalog.Dataset, path string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, &LoadError{Table: ds.Name, Op: "acquire", Err: err}
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, BuildCreateTableSQL(ds)); err != nil {
		return 0, &LoadError{Table: ds.Name, Op: "create table", Err: pgDetail(err)}
	}
	if _, err := conn.Exec(ctx, BuildTruncateSQL(ds)); err != nil {
		return 0, &LoadError{Table: ds.Name, Op: "truncate", Err: pgDetail(err)}
	}
	for _, stmt := range BuildCreateIndexSQL(ds) {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return 0, &LoadError{Table: ds.Name, Op: "create index", Err: pgDetail(err)}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, &LoadError{Table: ds.Name, Op: "copy", Err: err}
	}
	defer f.Close()

	start := time.Now()
	tag, err := conn.Conn().PgConn().CopyFrom(ctx, f, BuildCopySQL(ds))
	if err != nil {
		return 0, &LoadError{Table: ds.Name, Op: "copy", Err: pgDetail(err)}
	}

	rows := tag.RowsAffected()
	elapsed := time.Since(start)
	rps := float64(rows)
	if s := elapsed.Seconds(); s > 0 {
		rps = float64(rows) / s
	}
	log.Printf("loader: table=%s rows=%d elapsed=%s rps=%.0f",
		ds.Name, rows, elapsed.Truncate(time.Millisecond), rps)

	return rows, nil
}

// pgDetail surfaces the server's detail line when present; COPY rejections
// bury the useful context (offending line, column) there.
func pgDetail(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s: %s)", err, pgErr.SQLState(), pgErr.Detail)
	}
	return err
}
