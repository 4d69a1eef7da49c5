package bootstrap

import (
	"math/rand"
	"testing"

	"github.com/rbpeclip/rbpbind/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(n int) []interval.Interval {
	set := make([]interval.Interval, n)
	for i := range set {
		set[i] = interval.Interval{Chrom: "chr1", Start: int64(100 * i), End: int64(100*i + 101), Name: "-", Score: i, Strand: '+'}
	}
	return set
}

func TestSampleBootstrap(t *testing.T) {
	set := testSet(37)
	sample, err := Sample(set, DefaultBootstrap, rand.New(rand.NewSource(0)))
	require.NoError(t, err)
	require.Len(t, sample, 50000)
	inSet := map[interval.Interval]bool{}
	for _, iv := range set {
		inSet[iv] = true
	}
	seen := map[interval.Interval]bool{}
	for _, iv := range sample {
		require.True(t, inSet[iv], "%v", iv)
		seen[iv] = true
	}
	// With 50000 draws from 37 rows, every row is drawn.
	assert.Len(t, seen, len(set))
}

func TestSampleDeterministic(t *testing.T) {
	set := testSet(1000)
	mode := Bootstrap{Size: 50, Iterations: 3}
	s1, err := Sample(set, mode, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	s2, err := Sample(set, mode, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	s3, err := Sample(set, mode, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	assert.Len(t, s1, 150)
	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
}

func TestSampleFull(t *testing.T) {
	set := testSet(10)
	sample, err := Sample(set, Full{}, nil)
	require.NoError(t, err)
	assert.Equal(t, set, sample)
	assert.Equal(t, 10, Full{}.Draws(10))
	assert.Equal(t, 50000, DefaultBootstrap.Draws(10))
}

func TestSampleErrors(t *testing.T) {
	random := rand.New(rand.NewSource(0))
	_, err := Sample(nil, DefaultBootstrap, random)
	assert.Error(t, err)
	_, err = Sample(testSet(3), Bootstrap{Size: 0, Iterations: 10}, random)
	assert.Error(t, err)
	_, err = Sample(testSet(3), Bootstrap{Size: 10, Iterations: -1}, random)
	assert.Error(t, err)
	_, err = Sample(testSet(3), nil, random)
	assert.Error(t, err)

	// Full accepts an empty set.
	sample, err := Sample(nil, Full{}, random)
	assert.NoError(t, err)
	assert.Len(t, sample, 0)
}
