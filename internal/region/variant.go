// Package region converts VCF alleles into 0-based, half-open genomic regions.
package region

import (
	"strings"
)

// ChromPrefix is prepended to chromosome names that lack it.
const ChromPrefix = "chr"

// Variant is a single normalized allele in 0-based, half-open coordinates.
type Variant struct {
	Chrom string // Chromosome name, always starting with "chr"
	Start int64  // 0-based inclusive start
	End   int64  // 0-based exclusive end
	Ref   string // Trimmed reference allele (may be empty)
	Alt   string // Trimmed alternate allele (may be empty)
}

// PrefixChrom returns chrom with the "chr" prefix, adding it if missing.
func PrefixChrom(chrom string) string {
	if strings.HasPrefix(chrom, ChromPrefix) {
		return chrom
	}
	return ChromPrefix + chrom
}

// FromVCF normalizes one VCF record into one variant per alternate allele.
// pos is the 1-based VCF position and alts the comma-separated ALT column.
// Each alternate is trimmed against the untrimmed ref. An empty chromosome
// yields no variants.
func FromVCF(chrom string, pos int64, ref, alts string) []Variant {
	if chrom == "" {
		return nil
	}
	chrom = PrefixChrom(chrom)

	n := strings.Count(alts, ",") + 1
	variants := make([]Variant, 0, n)
	for _, alt := range strings.Split(alts, ",") {
		if alt == "" {
			continue
		}
		start, end, r, a := Trim(pos, ref, alt)
		variants = append(variants, Variant{
			Chrom: chrom,
			Start: start,
			End:   end,
			Ref:   r,
			Alt:   a,
		})
	}
	return variants
}

// Trim strips the bases shared by ref and alt from both ends and returns the
// remaining alleles with their 0-based, half-open coordinates. pos is the
// 1-based position of ref.
//
// The returned alleles are substrings of the arguments.
func Trim(pos int64, ref, alt string) (start, end int64, trimmedRef, trimmedAlt string) {
	// 1-based inclusive [pos, pos+len-1] is 0-based half-open [pos-1, pos+len-1).
	start = pos - 1
	end = pos + int64(len(ref)) - 1

	left := 0
	for left < len(ref) && left < len(alt) && ref[left] == alt[left] {
		left++
	}

	right := 0
	for left < len(ref)-right && left < len(alt)-right &&
		ref[len(ref)-1-right] == alt[len(alt)-1-right] {
		right++
	}

	return start + int64(left), end - int64(right),
		ref[left : len(ref)-right], alt[left : len(alt)-right]
}
