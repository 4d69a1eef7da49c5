package extract

import (
	"github.com/biogo/store/llrb"
	"github.com/rbpeclip/rbpbind/interval"
)

type key interval.Interval

// Compare compares two key objects for use in llrb.
func (k key) Compare(c2 llrb.Comparable) int {
	return interval.Compare(interval.Interval(k), interval.Interval(c2.(key)))
}

// Deduplicator collects intervals and keeps one copy of each distinct value.
// The zero value is ready to use.
type Deduplicator struct {
	tree llrb.Tree
}

// Add inserts the intervals.
func (d *Deduplicator) Add(ivs []interval.Interval) {
	for _, iv := range ivs {
		d.tree.Insert(key(iv))
	}
}

// Len returns the number of distinct intervals added so far.
func (d *Deduplicator) Len() int {
	return d.tree.Len()
}

// Intervals returns the distinct intervals in interval.Compare order.
func (d *Deduplicator) Intervals() []interval.Interval {
	ivs := make([]interval.Interval, 0, d.tree.Len())
	d.tree.Do(func(c llrb.Comparable) bool {
		ivs = append(ivs, interval.Interval(c.(key)))
		return false
	})
	return ivs
}

// Dedup returns the distinct elements of ivs, sorted.
func Dedup(ivs []interval.Interval) []interval.Interval {
	var d Deduplicator
	d.Add(ivs)
	return d.Intervals()
}
