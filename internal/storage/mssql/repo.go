// Package mssql is the artifact store for SQL Server estates.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/LeonHartK/datasetExploration/internal/storage"
)

// insertChunkRows keeps the bind-parameter count per statement under SQL
// Server's 2100-parameter limit with headroom for wide tables.
const insertChunkRows = 50

type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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

func (r *Repo) EnsureTable(ctx context.Context, t storage.Table) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL(t)); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+msIdent(t.Name)); err != nil {
		return fmt.Errorf("clear table %s: %w", t.Name, err)
	}
	return nil
}

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
		cols = append(cols, msIdent(c)+" NVARCHAR(MAX)")
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (\n  %s\n);",
		strings.ReplaceAll(t.Name, "'", "''"),
		msIdent(t.Name),
		strings.Join(cols, ",\n  "),
	)
}

// buildInsertSQL builds a multi-row INSERT with @pN placeholders, numbered
// from 1 per statement as the driver expects. It is pure for unit testing.
func buildInsertSQL(table string, columns []string, rows [][]string) (string, []any) {
	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, msIdent(c))
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(msIdent(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "@p%d", p)
			p++
			args = append(args, cell)
		}
		b.WriteString(")")
	}
	return b.String(), args
}

func msIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
