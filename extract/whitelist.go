package extract

import (
	"github.com/rbpeclip/rbpbind/interval"
)

// Whitelist drops intervals located on chromosomes outside Chromosomes.
type Whitelist struct {
	Chromosomes interval.ChromosomeSet
}

// Apply returns the intervals on whitelisted chromosomes, preserving order.
// The filtering is done in place; ivs must not be used afterwards.
func (w Whitelist) Apply(ivs []interval.Interval) []interval.Interval {
	kept := ivs[:0]
	for _, iv := range ivs {
		if w.Chromosomes.Contains(iv.Chrom) {
			kept = append(kept, iv)
		}
	}
	return kept
}
