package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Source describes one converted input file.
type Source struct {
	FileFingerprint
	Variants    int64
	ConvertedAt time.Time
}

// RecordSource stores the fingerprint of a converted input along with the
// number of variants it produced, replacing any earlier record for the path.
func (s *Store) RecordSource(fp FileFingerprint, variants int64) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sources (path, size, mod_time, variants, converted_at)
		VALUES (?, ?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime.UTC(), variants, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}

// Sources lists recorded inputs, oldest first.
func (s *Store) Sources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT path, size, mod_time, variants, converted_at
		FROM sources ORDER BY converted_at`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.Path, &src.Size, &src.ModTime, &src.Variants, &src.ConvertedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}
