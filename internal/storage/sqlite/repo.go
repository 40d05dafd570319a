// Package sqlite is the embedded artifact store, the default for local runs:
// no server, one file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/LeonHartK/datasetExploration/internal/storage"
)

// insertChunkRows caps rows per INSERT so the total bind-parameter count
// stays under SQLite's default limit.
const insertChunkRows = 80

type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureTable creates the table with TEXT columns if missing, then clears it
// so the run's rows fully replace the previous run's.
func (r *Repo) EnsureTable(ctx context.Context, t storage.Table) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL(t)); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+sqlIdent(t.Name)); err != nil {
		return fmt.Errorf("clear table %s: %w", t.Name, err)
	}
	return nil
}

// InsertRows writes rows in chunks inside one transaction.
func (r *Repo) InsertRows(ctx context.Context, t storage.Table) (int64, error) {
	if len(t.Rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for start := 0; start < len(t.Rows); start += insertChunkRows {
		end := start + insertChunkRows
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		chunk := t.Rows[start:end]

		q, args := buildInsertSQL(t.Name, t.Columns, chunk)
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return total, err
	}
	return total, nil
}

func createTableSQL(t storage.Table) string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, sqlIdent(c)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", sqlIdent(t.Name), strings.Join(cols, ",\n  "))
}

// buildInsertSQL is pure so placeholder layout can be unit tested without a
// database.
func buildInsertSQL(table string, columns []string, rows [][]string) (string, []any) {
	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, sqlIdent(c))
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, cell := range row {
			args = append(args, cell)
		}
	}
	return b.String(), args
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
