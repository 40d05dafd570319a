// Package storage persists computed analysis tables into a relational
// database. Backends register themselves by kind; the pipeline selects one
// through config and stays backend-agnostic.
//
// Persistence is full-replace per run: every table is cleared and rewritten,
// matching the batch engine's recompute-wholesale model. All cells are stored
// as text, mirroring the CSV artifacts.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and configures a backend.
type Config struct {
	Kind string // registered backend kind: "sqlite", "postgres", "mssql"
	DSN  string // backend-specific connection string
}

// Table is one artifact table to persist: CSV-shaped, all-text cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Repository is the minimal persistence surface the pipeline needs.
// Implementations must tolerate empty tables (zero rows is a valid artifact).
type Repository interface {
	// EnsureTable creates the table if missing and clears any rows from a
	// previous run.
	EnsureTable(ctx context.Context, t Table) error

	// InsertRows writes the table's rows and reports how many were written.
	InsertRows(ctx context.Context, t Table) (int64, error)

	// Close releases backend resources. Call once at shutdown.
	Close()
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind. Backend packages call it from
// init(); registering the same kind twice panics to fail fast on ambiguous
// selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository for the configured kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Save ensures and writes every table in order, returning the total row
// count.
func Save(ctx context.Context, repo Repository, tables []Table) (int64, error) {
	var total int64
	for _, t := range tables {
		if err := repo.EnsureTable(ctx, t); err != nil {
			return total, fmt.Errorf("ensure table %s: %w", t.Name, err)
		}
		n, err := repo.InsertRows(ctx, t)
		if err != nil {
			return total, fmt.Errorf("insert into %s: %w", t.Name, err)
		}
		total += n
	}
	return total, nil
}
