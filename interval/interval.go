package interval

import (
	"fmt"
	"strings"
)

// Interval is a single BED6 record.
type Interval struct {
	Chrom string
	// Start is the 0-based first position.
	Start int64
	// End is one past the last position.
	End    int64
	Name   string
	Score  int
	Strand byte
}

// NoStrand is the strand value of an interval with unknown orientation.
const NoStrand = '.'

// Len returns the number of bases covered by the interval.
func (iv Interval) Len() int64 {
	return iv.End - iv.Start
}

// String returns the interval as a tab-separated BED6 line, without the
// trailing newline.
func (iv Interval) String() string {
	strand := iv.Strand
	if strand == 0 {
		strand = NoStrand
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s\t%d\t%c", iv.Chrom, iv.Start, iv.End, iv.Name, iv.Score, strand)
}

// Compare orders intervals by chromosome name, start, end, name, score and
// strand, in that order. It returns a negative value if a sorts before b, zero
// if they are identical in every field, and a positive value otherwise.
func Compare(a, b Interval) int {
	if c := strings.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if a.Start != b.Start {
		if a.Start < b.Start {
			return -1
		}
		return 1
	}
	if a.End != b.End {
		if a.End < b.End {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if a.Score != b.Score {
		if a.Score < b.Score {
			return -1
		}
		return 1
	}
	return int(a.Strand) - int(b.Strand)
}
