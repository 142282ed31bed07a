package vcf

// Column indexes of a VCF data line.
const (
	ColChrom = 0
	ColPos   = 1
	ColID    = 2
	ColRef   = 3
	ColAlt   = 4
)

// Record holds the columns of a VCF data line that drive coordinate
// conversion. QUAL, FILTER, INFO and sample columns are not retained.
type Record struct {
	Chrom string // Chromosome name as written in the file (e.g., "12", "chr12")
	Pos   int64  // 1-based position of Ref
	ID    string // Variant identifier (e.g., rs ID)
	Ref   string // Reference allele
	Alt   string // Comma-separated alternate alleles
	Line  int    // Line number in the input
}
