package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cru-genomics/vcf2tab/internal/region"
)

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "region\tsequenceid\tstartposition\tendposition\trefsequence\taltsequence\t\n", buf.String())
}

func TestTabWriter_Write(t *testing.T) {
	tests := []struct {
		name string
		v    region.Variant
		want string
	}{
		{"SNV", region.Variant{Chrom: "chr1", Start: 9, End: 10, Ref: "A", Alt: "G"}, "chr1\t9\t10\tA\tG\t\n"},
		{"insertion", region.Variant{Chrom: "chr1", Start: 10, End: 10, Ref: "", Alt: "A"}, "chr1\t10\t10\t\tA\t\n"},
		{"deletion", region.Variant{Chrom: "chrX", Start: 10, End: 11, Ref: "A", Alt: ""}, "chrX\t10\t11\tA\t\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewTabWriter(&buf)

			require.NoError(t, w.Write(tt.v))
			require.NoError(t, w.Flush())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTabWriter_ManyRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	for i := int64(0); i < 5000; i++ {
		require.NoError(t, w.Write(region.Variant{Chrom: "chr2", Start: i, End: i + 1, Ref: "C", Alt: "T"}))
	}
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5001)
	assert.Equal(t, "chr2\t4999\t5000\tC\tT\t", lines[5000])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTabWriter_FlushError(t *testing.T) {
	w := NewTabWriter(failingWriter{})

	require.NoError(t, w.WriteHeader())
	assert.EqualError(t, w.Flush(), "disk full")
}
