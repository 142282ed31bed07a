package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Interval is a 0-based, half-open range on a chromosome.
type Interval struct {
	Chrom string
	Start int64
	End   int64
}

// String formats the interval as chrom:start-end.
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}

// ParseInterval parses "chrom:start-end" (0-based, half-open) or a bare
// chromosome name, which covers the whole chromosome.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Interval{}, errors.New("empty interval")
	}

	chrom, span, hasSpan := strings.Cut(s, ":")
	if chrom == "" {
		return Interval{}, fmt.Errorf("interval %q: missing chromosome", s)
	}
	iv := Interval{Chrom: PrefixChrom(chrom), End: -1}
	if !hasSpan {
		return iv, nil
	}

	from, to, ok := strings.Cut(strings.ReplaceAll(span, ",", ""), "-")
	if !ok {
		return Interval{}, fmt.Errorf("interval %q: expected start-end", s)
	}
	start, err := strconv.ParseInt(from, 10, 64)
	if err != nil || start < 0 {
		return Interval{}, fmt.Errorf("interval %q: invalid start %q", s, from)
	}
	end, err := strconv.ParseInt(to, 10, 64)
	if err != nil || end < start {
		return Interval{}, fmt.Errorf("interval %q: invalid end %q", s, to)
	}
	iv.Start, iv.End = start, end
	return iv, nil
}

// Unbounded reports whether the interval spans the whole chromosome.
func (iv Interval) Unbounded() bool {
	return iv.End < 0
}
