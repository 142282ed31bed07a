// Package convert drives VCF records through normalization into variant writers.
package convert

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cru-genomics/vcf2tab/internal/output"
	"github.com/cru-genomics/vcf2tab/internal/region"
	"github.com/cru-genomics/vcf2tab/internal/vcf"
)

// Progress marks are printed every progressDot data lines, with a running
// count every progressCount lines.
const (
	progressDot   = 10
	progressCount = 1000
)

// Options configures a conversion run.
type Options struct {
	// MaxLines stops the run after this many data lines. Zero means no limit.
	MaxLines int
	// Progress prints a dot every 10 data lines and a count every 1,000.
	Progress bool
}

// Stats summarizes a conversion run.
type Stats struct {
	Lines    int // data lines read
	Skipped  int // records dropped for an empty chromosome or ALT column
	Variants int // rows written
}

// Converter normalizes VCF records and writes the resulting variants.
type Converter struct {
	opts     Options
	progress io.Writer
	logger   *zap.Logger
}

// NewConverter creates a converter with the given options.
func NewConverter(opts Options) *Converter {
	return &Converter{
		opts:     opts,
		progress: os.Stderr,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for debug and info messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SetProgressOutput sets where progress marks are printed.
func (c *Converter) SetProgressOutput(w io.Writer) {
	c.progress = w
}

// ConvertFile converts the VCF at inPath into a tab-delimited file at
// outPath. Variants are also written to any extra writers. Input and output
// are closed on every return path; on error the output holds whatever was
// written before the failure.
func (c *Converter) ConvertFile(inPath, outPath string, extra ...VariantWriter) (stats Stats, err error) {
	parser, err := vcf.NewParser(inPath)
	if err != nil {
		return stats, err
	}
	defer parser.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return stats, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	return c.convertParser(parser, out, extra)
}

// ConvertTo converts the VCF at inPath ("-" for stdin) and writes the
// tab-delimited result to out.
func (c *Converter) ConvertTo(inPath string, out io.Writer, extra ...VariantWriter) (Stats, error) {
	parser, err := vcf.NewParser(inPath)
	if err != nil {
		return Stats{}, err
	}
	defer parser.Close()

	return c.convertParser(parser, out, extra)
}

func (c *Converter) convertParser(parser vcf.RecordParser, out io.Writer, extra []VariantWriter) (Stats, error) {
	writers := append([]VariantWriter{output.NewTabWriter(out)}, extra...)
	return c.ConvertAll(parser, MultiWriter(writers...))
}

// ConvertAll writes the header, then every variant normalized from the
// parser's records. The writer is flushed even when conversion fails.
func (c *Converter) ConvertAll(parser vcf.RecordParser, w VariantWriter) (stats Stats, err error) {
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", ferr)
		}
	}()

	if err := w.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	for c.opts.MaxLines <= 0 || stats.Lines < c.opts.MaxLines {
		rec, err := parser.Next()
		if err != nil {
			return stats, fmt.Errorf("read record: %w", err)
		}
		if rec == nil {
			break
		}
		stats.Lines++
		c.tick(stats.Lines)

		if rec.Chrom == "" {
			stats.Skipped++
			c.logger.Debug("skipping record without chromosome", zap.Int("line", rec.Line))
			continue
		}
		variants := region.FromVCF(rec.Chrom, rec.Pos, rec.Ref, rec.Alt)
		if len(variants) == 0 {
			stats.Skipped++
			c.logger.Debug("skipping record without alternate alleles",
				zap.Int("line", rec.Line),
				zap.String("alt", rec.Alt))
			continue
		}
		for _, v := range variants {
			if err := w.Write(v); err != nil {
				return stats, fmt.Errorf("write variant at line %d: %w", rec.Line, err)
			}
			stats.Variants++
		}
	}

	if c.opts.Progress && stats.Lines >= progressDot && stats.Lines%progressCount != 0 {
		fmt.Fprintln(c.progress)
	}

	c.logger.Info("conversion finished",
		zap.Int("lines", stats.Lines),
		zap.Int("variants", stats.Variants),
		zap.Int("skipped", stats.Skipped))

	return stats, nil
}

// tick prints progress marks for the n-th data line.
func (c *Converter) tick(n int) {
	if !c.opts.Progress {
		return
	}
	if n%progressDot == 0 {
		fmt.Fprint(c.progress, ".")
	}
	if n%progressCount == 0 {
		fmt.Fprintf(c.progress, " %d\n", n)
	}
}
