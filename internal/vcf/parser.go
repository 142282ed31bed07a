package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Parser reads records from a VCF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a new VCF parser for the given file.
// Files ending in ".gz" are decompressed; "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	if IsGzipPath(path) {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// IsGzipPath reports whether path names a gzip-compressed file.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// Next reads the next record from the VCF file.
// Header lines ('#') and blank lines are skipped.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read line %d: %w", p.lineNumber+1, err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single VCF data line into a Record.
// An empty chromosome column yields a Record with an empty Chrom and no
// error; callers decide whether to skip it.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.SplitN(line, "\t", ColAlt+2)
	if fields[ColChrom] == "" {
		return &Record{Line: p.lineNumber}, nil
	}

	if len(fields) <= ColAlt {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", ColAlt+1, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[ColPos], 10, 64)
	if err != nil || pos < 0 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[ColPos]),
		}
	}

	return &Record{
		Chrom: fields[ColChrom],
		Pos:   pos,
		ID:    fields[ColID],
		Ref:   fields[ColRef],
		Alt:   fields[ColAlt],
		Line:  p.lineNumber,
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
