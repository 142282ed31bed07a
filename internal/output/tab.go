// Package output provides writers for normalized variants.
package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/cru-genomics/vcf2tab/internal/region"
)

// Columns is the fixed header of the tab-delimited output.
var Columns = []string{
	"region",
	"sequenceid",
	"startposition",
	"endposition",
	"refsequence",
	"altsequence",
}

// TabWriter writes variants in tab-delimited format. Every line, header
// included, ends with a tab before the newline.
type TabWriter struct {
	w   *bufio.Writer
	buf []byte
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w:   bufio.NewWriter(w),
		buf: make([]byte, 0, 128),
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	b := tw.buf[:0]
	for _, col := range Columns {
		b = append(b, col...)
		b = append(b, '\t')
	}
	b = append(b, '\n')
	tw.buf = b
	_, err := tw.w.Write(b)
	return err
}

// Write writes a single variant.
func (tw *TabWriter) Write(v region.Variant) error {
	b := tw.buf[:0]
	b = append(b, v.Chrom...)
	b = append(b, '\t')
	b = strconv.AppendInt(b, v.Start, 10)
	b = append(b, '\t')
	b = strconv.AppendInt(b, v.End, 10)
	b = append(b, '\t')
	b = append(b, v.Ref...)
	b = append(b, '\t')
	b = append(b, v.Alt...)
	b = append(b, '\t', '\n')
	tw.buf = b
	_, err := tw.w.Write(b)
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
