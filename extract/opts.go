package extract

import (
	"github.com/rbpeclip/rbpbind/interval"
)

const (
	// MinLength is the exclusive lower bound of an accepted read span.
	MinLength = 90
	// MaxLength is the exclusive upper bound of an accepted read span.
	MaxLength = 150
	// WindowWidth is the width of every interval produced by the extractor.
	WindowWidth = 101
	// DefaultChunkSize is the number of alignment records loaded at a time.
	DefaultChunkSize = 10000000
	// WindowName replaces the read name of every normalized interval.
	WindowName = "-"
)

// Opts defines the behavior of an Extractor.
type Opts struct {
	// ChunkSize is the number of records loaded and filtered at a time.
	ChunkSize int
	// MinLength and MaxLength bound the accepted read span, both exclusive.
	MinLength, MaxLength int64
	// Width is the width of the normalized window.
	Width int64
	// Chromosomes is the whitelist. If nil, interval.HumanChromosomes is used.
	Chromosomes interval.ChromosomeSet
	// Parallelism bounds the number of goroutines used within a chunk. If <=
	// 0, runtime.NumCPU() is used.
	Parallelism int
	// Verbose enables progress logging.
	Verbose bool
}

// DefaultOpts holds the values used by the rbpbind command.
var DefaultOpts = Opts{
	ChunkSize:   DefaultChunkSize,
	MinLength:   MinLength,
	MaxLength:   MaxLength,
	Width:       WindowWidth,
	Chromosomes: interval.HumanChromosomes,
}
