package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cru-genomics/vcf2tab/internal/region"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleVariants() []region.Variant {
	return []region.Variant{
		{Chrom: "chr1", Start: 9, End: 10, Ref: "A", Alt: "G"},
		{Chrom: "chr1", Start: 9, End: 10, Ref: "A", Alt: "T"},
		{Chrom: "chr1", Start: 20, End: 20, Ref: "", Alt: "A"},
		{Chrom: "chr1", Start: 30, End: 33, Ref: "TTA", Alt: ""},
		{Chrom: "chr2", Start: 15, End: 16, Ref: "C", Alt: "G"},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.db.Ping())
	assert.Equal(t, "", s.Path())
}

func TestWriteAndCountVariants(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteVariants("a.vcf", sampleVariants()))

	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, s.WriteVariants("a.vcf", nil))
	n, err = s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestClearSource(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteVariants("a.vcf", sampleVariants()))
	require.NoError(t, s.WriteVariants("b.vcf", sampleVariants()[:2]))
	require.NoError(t, s.RecordSource(FileFingerprint{Path: "a.vcf", Size: 1, ModTime: time.Now()}, 5))
	require.NoError(t, s.RecordSource(FileFingerprint{Path: "b.vcf", Size: 1, ModTime: time.Now()}, 2))

	require.NoError(t, s.ClearSource("a.vcf"))

	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	sources, err := s.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "b.vcf", sources[0].Path)

	// Clearing an unknown source is a no-op.
	require.NoError(t, s.ClearSource("missing.vcf"))
}

func TestClearSource_ThenRewriteHasNoDuplicates(t *testing.T) {
	s := openInMemory(t)
	for i := 0; i < 2; i++ {
		require.NoError(t, s.ClearSource("a.vcf"))
		w := s.NewWriter("a.vcf", 0)
		for _, v := range sampleVariants() {
			require.NoError(t, w.Write(v))
		}
		require.NoError(t, w.Flush())
	}

	got, err := s.Overlapping(region.Interval{Chrom: "chr2", End: -1})
	require.NoError(t, err)
	assert.Equal(t, sampleVariants()[4:], got)
}

func TestOverlapping(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteVariants("a.vcf", sampleVariants()))

	tests := []struct {
		name string
		iv   region.Interval
		want []region.Variant
	}{
		{
			name: "SNV site",
			iv:   region.Interval{Chrom: "chr1", Start: 9, End: 10},
			want: sampleVariants()[:2],
		},
		{
			name: "adjacent interval excludes SNV",
			iv:   region.Interval{Chrom: "chr1", Start: 10, End: 19},
		},
		{
			name: "insertion point inside",
			iv:   region.Interval{Chrom: "chr1", Start: 15, End: 25},
			want: sampleVariants()[2:3],
		},
		{
			name: "insertion point at end excluded",
			iv:   region.Interval{Chrom: "chr1", Start: 15, End: 20},
		},
		{
			name: "partial deletion overlap",
			iv:   region.Interval{Chrom: "chr1", Start: 32, End: 40},
			want: sampleVariants()[3:4],
		},
		{
			name: "whole chromosome",
			iv:   region.Interval{Chrom: "chr2", End: -1},
			want: sampleVariants()[4:],
		},
		{
			name: "unknown chromosome",
			iv:   region.Interval{Chrom: "chrY", Start: 0, End: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Overlapping(tt.iv)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Batches(t *testing.T) {
	s := openInMemory(t)
	w := s.NewWriter("a.vcf", 2)

	require.NoError(t, w.WriteHeader())
	for _, v := range sampleVariants() {
		require.NoError(t, w.Write(v))
	}

	// Two full batches appended, one variant still buffered.
	assert.Equal(t, int64(4), w.Written())
	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, w.Flush())
	assert.Equal(t, int64(5), w.Written())
	n, err = s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestWriter_DefaultBatchSize(t *testing.T) {
	s := openInMemory(t)
	w := s.NewWriter("a.vcf", 0)
	assert.Equal(t, DefaultBatchSize, w.batchSize)
}

func TestRecordSource(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "calls.vcf")
	require.NoError(t, os.WriteFile(path, []byte("1\t10\t.\tA\tG\n"), 0o644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(11), fp.Size)

	require.NoError(t, s.RecordSource(fp, 1))
	require.NoError(t, s.RecordSource(fp, 1))

	sources, err := s.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, path, sources[0].Path)
	assert.Equal(t, int64(11), sources[0].Size)
	assert.Equal(t, int64(1), sources[0].Variants)
	assert.WithinDuration(t, fp.ModTime, sources[0].ModTime, time.Second)
}

func TestStatFile_Missing(t *testing.T) {
	_, err := StatFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "variants.duckdb")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.WriteVariants("a.vcf", sampleVariants()))
	require.NoError(t, s.Close())

	s, err = Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
