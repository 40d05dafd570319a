// Package postgres is the shared artifact store for deployments where the
// reporting layer reads from a central database.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeonHartK/datasetExploration/internal/storage"
)

type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

func (r *Repo) EnsureTable(ctx context.Context, t storage.Table) error {
	if _, err := r.pool.Exec(ctx, createTableSQL(t)); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	if _, err := r.pool.Exec(ctx, "TRUNCATE TABLE "+pgIdent(t.Name)); err != nil {
		return fmt.Errorf("clear table %s: %w", t.Name, err)
	}
	return nil
}

// InsertRows streams rows through the COPY protocol, the fast path pgx
// provides for bulk loads.
func (r *Repo) InsertRows(ctx context.Context, t storage.Table) (int64, error) {
	if len(t.Rows) == 0 {
		return 0, nil
	}

	src := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		vals := make([]any, len(row))
		for j, cell := range row {
			vals[j] = cell
		}
		src[i] = vals
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{t.Name},
		t.Columns,
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", t.Name, err)
	}
	return n, nil
}

func createTableSQL(t storage.Table) string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, pgIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", pgIdent(t.Name), strings.Join(cols, ",\n  "))
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
