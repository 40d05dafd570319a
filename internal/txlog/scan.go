package txlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ScanOptions controls raw-row scanning.
type ScanOptions struct {
	// Comma is the field delimiter. Zero means '|', the transaction log's
	// native separator.
	Comma rune
	// HasHeader skips the first physical line.
	HasHeader bool
	// TrimSpace trims edge whitespace from every field.
	TrimSpace bool
}

// ScanRows streams delimited rows from src and hands each one to fn.
//
// Rows have variable field counts (the repeating-group encoding), so no
// per-record field validation happens here. Read errors on a single line are
// reported through onErr and skipped; the scan aborts only on ctx
// cancellation, a handler error, or a broken reader.
//
// onErr may be nil.
func ScanRows(ctx context.Context, src io.Reader, opt ScanOptions, fn func(RawRow) error, onErr func(line int, err error)) error {
	comma := opt.Comma
	if comma == 0 {
		comma = '|'
	}

	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var line int
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	if opt.HasHeader {
		if _, err := readRec(); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read header: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := readRec()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("read row: %w", err))
			}
			continue
		}

		fields := make([]string, len(rec))
		for i, v := range rec {
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			fields[i] = v
		}

		if err := fn(RawRow{Line: line, Fields: fields}); err != nil {
			return err
		}
	}
}

// CollectRows scans src to completion and returns every row. Convenience for
// datasets that fit in memory, which is the batch engine's operating
// assumption.
func CollectRows(ctx context.Context, src io.Reader, opt ScanOptions, onErr func(line int, err error)) ([]RawRow, error) {
	var rows []RawRow
	err := ScanRows(ctx, src, opt, func(r RawRow) error {
		rows = append(rows, r)
		return nil
	}, onErr)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
