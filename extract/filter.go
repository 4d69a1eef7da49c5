package extract

import (
	"runtime"

	"github.com/grailbio/base/traverse"
	"github.com/rbpeclip/rbpbind/interval"
	"github.com/willf/bitset"
)

// filterShardSize is the number of rows tested by one goroutine at a time.
// It must be a multiple of 64 so that no two shards share a bitset word.
const filterShardSize = 64 * 1024

// LengthFilter keeps intervals whose span lies strictly between Min and Max.
type LengthFilter struct {
	Min, Max    int64
	Parallelism int
}

// Keep reports whether iv passes the filter.
func (f LengthFilter) Keep(iv interval.Interval) bool {
	n := iv.End - iv.Start
	return n > f.Min && n < f.Max
}

// Filter returns the intervals of chunk that pass the filter, in their
// original order. The result does not alias chunk.
func (f LengthFilter) Filter(chunk []interval.Interval) ([]interval.Interval, error) {
	n := len(chunk)
	if n == 0 {
		return nil, nil
	}
	keep := bitset.New(uint(n))
	nShard := (n + filterShardSize - 1) / filterShardSize
	parallelism := f.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > nShard {
		parallelism = nShard
	}
	err := traverse.Each(parallelism, func(jobIdx int) error {
		for shard := jobIdx; shard < nShard; shard += parallelism {
			start := shard * filterShardSize
			limit := start + filterShardSize
			if limit > n {
				limit = n
			}
			for i := start; i < limit; i++ {
				if f.Keep(chunk[i]) {
					keep.Set(uint(i))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	kept := make([]interval.Interval, 0, keep.Count())
	for i, ok := keep.NextSet(0); ok; i, ok = keep.NextSet(i + 1) {
		kept = append(kept, chunk[i])
	}
	return kept, nil
}
