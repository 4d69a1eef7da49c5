package extract

import (
	"github.com/exascience/pargo/parallel"
	"github.com/rbpeclip/rbpbind/interval"
)

// Normalizer rewrites intervals in place to a fixed-width window anchored at
// their start. The original end and name are discarded.
type Normalizer struct {
	Width int64
	// Name replaces the name of every interval.
	Name string
}

// Normalize rewrites every element of ivs.
func (w Normalizer) Normalize(ivs []interval.Interval) {
	parallel.Range(0, len(ivs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			ivs[i].End = ivs[i].Start + w.Width
			ivs[i].Name = w.Name
		}
	})
}
