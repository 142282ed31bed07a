package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/cru-genomics/vcf2tab/internal/region"
)

// DefaultBatchSize is the number of variants a Writer buffers before
// appending them to the database.
const DefaultBatchSize = 10000

// WriteVariants batch-inserts variants converted from source into DuckDB
// using the Appender API.
func (s *Store) WriteVariants(source string, variants []region.Variant) error {
	if len(variants) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, v := range variants {
		if err := appender.AppendRow(source, v.Chrom, v.Start, v.End, v.Ref, v.Alt); err != nil {
			return fmt.Errorf("append variant: %w", err)
		}
	}

	return appender.Flush()
}

// ClearSource removes the variants and the recorded fingerprint of a
// previously converted input, so that converting it again does not store
// its variants twice.
func (s *Store) ClearSource(source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM variants WHERE source = ?", source); err != nil {
		return fmt.Errorf("clear variants of %s: %w", source, err)
	}
	if _, err := tx.Exec("DELETE FROM sources WHERE path = ?", source); err != nil {
		return fmt.Errorf("clear source %s: %w", source, err)
	}
	return tx.Commit()
}

// CountVariants returns the number of stored variants.
func (s *Store) CountVariants() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// Overlapping returns stored variants on iv.Chrom that overlap the half-open
// interval. Insertion points (start == end) match when they lie inside it.
// An unbounded interval returns the whole chromosome.
func (s *Store) Overlapping(iv region.Interval) ([]region.Variant, error) {
	query := `SELECT chrom, start_pos, end_pos, ref, alt FROM variants WHERE chrom = ?`
	args := []any{iv.Chrom}
	if !iv.Unbounded() {
		query += ` AND start_pos < ? AND (end_pos > ? OR (end_pos = start_pos AND start_pos >= ?))`
		args = append(args, iv.End, iv.Start, iv.Start)
	}
	query += ` ORDER BY start_pos, end_pos, alt`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", iv.Chrom, err)
	}
	defer rows.Close()

	var variants []region.Variant
	for rows.Next() {
		var v region.Variant
		if err := rows.Scan(&v.Chrom, &v.Start, &v.End, &v.Ref, &v.Alt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return variants, nil
}

// Writer buffers variants and appends them to a Store in batches.
// It satisfies the converter's variant writer interface.
type Writer struct {
	store     *Store
	source    string
	batch     []region.Variant
	batchSize int
	written   int64
}

// NewWriter creates a batching writer that tags rows with source. A
// batchSize <= 0 uses DefaultBatchSize.
func (s *Store) NewWriter(source string, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{
		store:     s,
		source:    source,
		batch:     make([]region.Variant, 0, batchSize),
		batchSize: batchSize,
	}
}

// WriteHeader is a no-op; the table schema is the header.
func (w *Writer) WriteHeader() error {
	return nil
}

// Write buffers a variant, appending the batch when it is full.
func (w *Writer) Write(v region.Variant) error {
	w.batch = append(w.batch, v)
	if len(w.batch) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush appends any buffered variants.
func (w *Writer) Flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	if err := w.store.WriteVariants(w.source, w.batch); err != nil {
		return err
	}
	w.written += int64(len(w.batch))
	w.store.logger.Debug("appended variants",
		zap.Int("batch", len(w.batch)),
		zap.Int64("total", w.written))
	w.batch = w.batch[:0]
	return nil
}

// Written returns the number of variants appended so far.
func (w *Writer) Written() int64 {
	return w.written
}
