package bootstrap

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rbpeclip/rbpbind/interval"
)

// SamplingMode selects how the intervals to score are drawn from an interval
// set. It is either Bootstrap or Full.
type SamplingMode interface {
	// Draws returns the number of intervals scored for a set of n intervals.
	Draws(n int) int
	isSamplingMode()
}

// Bootstrap draws Size*Iterations intervals uniformly and with replacement.
type Bootstrap struct {
	Size       int
	Iterations int
}

// Full scores every interval of the set exactly once, in file order.
type Full struct{}

// Draws implements SamplingMode.
func (b Bootstrap) Draws(int) int { return b.Size * b.Iterations }

// Draws implements SamplingMode.
func (Full) Draws(n int) int { return n }

func (Bootstrap) isSamplingMode() {}
func (Full) isSamplingMode()      {}

// DefaultBootstrap is the sample plan used unless configured otherwise.
var DefaultBootstrap = Bootstrap{Size: 5000, Iterations: 10}

// Sample returns the intervals to score. For Bootstrap each row is a copy of
// a uniformly chosen row of set, drawn independently with random. For Full,
// set itself is returned.
func Sample(set []interval.Interval, mode SamplingMode, random *rand.Rand) ([]interval.Interval, error) {
	switch m := mode.(type) {
	case Full:
		return set, nil
	case Bootstrap:
		if m.Size <= 0 || m.Iterations <= 0 {
			return nil, errors.Errorf("bootstrap sample size and iterations must be positive, got %d and %d", m.Size, m.Iterations)
		}
		if len(set) == 0 {
			return nil, errors.New("cannot bootstrap from an empty interval set")
		}
		sample := make([]interval.Interval, m.Draws(len(set)))
		for i := range sample {
			sample[i] = set[random.Intn(len(set))]
		}
		return sample, nil
	default:
		return nil, errors.Errorf("unknown sampling mode %T", mode)
	}
}
