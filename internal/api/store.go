// Package api exposes the computed analysis artifacts over a read-only HTTP
// API. The server owns no state of its own: every request reads the CSV
// tables the batch pipeline published, so a re-run is visible immediately
// (the writer renames tables into place, readers never see partial files).
package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrNotFound marks a request for an artifact that does not exist.
var ErrNotFound = errors.New("api: artifact not found")

// artifact names are produced by the pipeline; anything else in the directory
// is ignored and anything not matching is rejected before touching the
// filesystem.
var nameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Store reads published artifact tables from the report directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// TableMeta describes one published artifact.
type TableMeta struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size_bytes"`
	Modified time.Time `json:"modified"`
}

// TableData is one artifact decoded for JSON consumption.
type TableData struct {
	Name      string     `json:"name"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"` // before the limit was applied
}

// List returns every published table, sorted by name.
func (s *Store) List() ([]TableMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	var out []TableMeta
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".csv")
		if e.IsDir() || name == e.Name() || !nameRe.MatchString(name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, TableMeta{Name: name, Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Load reads one table. limit > 0 truncates the row set; TotalRows always
// reports the full count.
func (s *Store) Load(name string, limit int) (*TableData, error) {
	if !nameRe.MatchString(name) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name+".csv"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open artifact %s: %w", name, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("artifact %s: missing header", name)
	}

	t := &TableData{Name: name, Columns: all[0], Rows: all[1:], TotalRows: len(all) - 1}
	if t.Rows == nil {
		t.Rows = [][]string{}
	}
	if limit > 0 && len(t.Rows) > limit {
		t.Rows = t.Rows[:limit]
	}
	return t, nil
}

// Objects re-shapes a table's rows into column-keyed maps, the form the
// analytics endpoints serve.
func (t *TableData) Objects() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}

// KeyValues flattens a metric/value table into one map.
func (t *TableData) KeyValues() map[string]string {
	out := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) >= 2 {
			out[row[0]] = row[1]
		}
	}
	return out
}
