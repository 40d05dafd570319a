package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LeonHartK/datasetExploration/internal/storage"
)

// WriteCSV writes one table to dir/<name>.csv. The file appears atomically:
// the CSV is staged in a temp file in the same directory and renamed into
// place, so readers (the artifact API included) never see a half-written
// table.
func WriteCSV(dir string, t storage.Table) error {
	tmp, err := os.CreateTemp(dir, t.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage %s: %w", t.Name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s rows: %w", t.Name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", t.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.Name, err)
	}

	dst := filepath.Join(dir, t.Name+".csv")
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("publish %s: %w", t.Name, err)
	}
	return nil
}

// WriteAll creates dir if needed and writes every table. It stops at the
// first failure.
func WriteAll(dir string, tables []storage.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	for _, t := range tables {
		if err := WriteCSV(dir, t); err != nil {
			return err
		}
	}
	return nil
}
