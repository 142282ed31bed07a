// Package vcf reads variant records from VCF text files.
package vcf

// RecordParser is the interface for readers that yield VCF data records.
type RecordParser interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
