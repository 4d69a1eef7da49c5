package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/rbpeclip/rbpbind/encoding/bamtobed"
	"github.com/rbpeclip/rbpbind/encoding/bed"
	"github.com/rbpeclip/rbpbind/interval"
)

// Stage identifies a step of an extraction.
type Stage int

const (
	// Loading reads a chunk of intervals from the source.
	Loading Stage = iota
	// Filtering applies the length filter to the current chunk.
	Filtering
	// Normalizing rewrites the kept intervals to fixed-width windows.
	Normalizing
	// Deduping removes duplicate intervals.
	Deduping
	// Whitelisting removes intervals off the whitelisted chromosomes.
	Whitelisting
	// Writing persists the interval set.
	Writing
	// Done means the extraction completed.
	Done
)

var stageNames = [...]string{"loading", "filtering", "normalizing", "deduping", "whitelisting", "writing", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Source yields raw intervals in chunks. Next returns at most n intervals, and
// an empty slice with io.EOF once the source is exhausted.
type Source interface {
	Next(n int) ([]interval.Interval, error)
}

type bedSource struct{ r *bed.Reader }

func (s bedSource) Next(n int) ([]interval.Interval, error) { return s.r.Read(n) }

// NewBEDSource adapts a BED reader to Source.
func NewBEDSource(r *bed.Reader) Source {
	return bedSource{r}
}

// Stats summarizes an extraction.
type Stats struct {
	// RunID uniquely labels the extraction in logs.
	RunID string
	// Stage is Done after a successful extraction, and the stage that failed
	// otherwise.
	Stage Stage
	// Read is the number of intervals loaded from the source.
	Read int
	// Kept is the number of intervals that passed the length filter.
	Kept int
	// Unique is the number of distinct normalized intervals.
	Unique int
	// Written is the number of intervals written to the output.
	Written int
	// Checksum is the seahash of the output file, set by Extract.
	Checksum uint64
}

// Extractor runs the extraction pipeline. Thread compatible.
type Extractor struct {
	Opts Opts
}

// New creates an Extractor. Zero-valued fields of opts are taken from
// DefaultOpts.
func New(opts Opts) *Extractor {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOpts.ChunkSize
	}
	if opts.MinLength == 0 && opts.MaxLength == 0 {
		opts.MinLength, opts.MaxLength = DefaultOpts.MinLength, DefaultOpts.MaxLength
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOpts.Width
	}
	if opts.Chromosomes == nil {
		opts.Chromosomes = DefaultOpts.Chromosomes
	}
	return &Extractor{Opts: opts}
}

func (x *Extractor) logf(format string, args ...interface{}) {
	if x.Opts.Verbose {
		log.Printf(format, args...)
	}
}

// isBED reports whether path names an interval file rather than an alignment.
func isBED(path string) bool {
	return strings.HasSuffix(path, ".bed") || strings.HasSuffix(path, ".bed.gz")
}

// Extract converts the alignment (or BED) file at inPath into the interval
// file at outPath, replacing any existing file.
func (x *Extractor) Extract(ctx context.Context, inPath, outPath string) (stats Stats, err error) {
	stats.RunID = uuid.New().String()
	x.logf("converting %s to %s (run %s)", inPath, outPath, stats.RunID)
	if isBED(inPath) {
		err = bed.WithReader(ctx, inPath, func(r *bed.Reader) error {
			var e error
			stats, e = x.run(ctx, NewBEDSource(r), outPath, stats)
			return e
		})
	} else {
		var r *bamtobed.Reader
		if r, err = bamtobed.Open(ctx, inPath, bamtobed.Opts{Parallelism: x.Opts.Parallelism}); err != nil {
			removeStale(outPath)
			return stats, errors.E(err, "extract", inPath, stats.Stage.String())
		}
		stats, err = x.run(ctx, r, outPath, stats)
		if e := r.Close(); e != nil && err == nil {
			err = errors.E(e, "extract", inPath)
		}
	}
	if err != nil {
		if stats.Stage < Writing {
			removeStale(outPath)
		}
		return stats, errors.E(err, "extract", inPath)
	}
	if stats.Checksum, err = bed.Checksum(ctx, outPath); err != nil {
		return stats, errors.E(err, "extract", inPath)
	}
	x.logf("%s: done (read %d, kept %d, unique %d, written %d, checksum %016x)",
		inPath, stats.Read, stats.Kept, stats.Unique, stats.Written, stats.Checksum)
	return stats, nil
}

// removeStale removes the output of an earlier run. A failed write removes its
// own partial file.
func removeStale(outPath string) {
	if err := file.Remove(context.Background(), outPath); err != nil && !os.IsNotExist(err) && !errors.Is(errors.NotExist, err) {
		log.Error.Printf("%s: remove stale output: %v", outPath, err)
	}
}

// Run executes every stage over src and writes the result to outPath.
func (x *Extractor) Run(ctx context.Context, src Source, outPath string) (Stats, error) {
	return x.run(ctx, src, outPath, Stats{RunID: uuid.New().String()})
}

func (x *Extractor) run(ctx context.Context, src Source, outPath string, stats Stats) (Stats, error) {
	fail := func(err error) (Stats, error) {
		if stats.Stage < Writing {
			removeStale(outPath)
		}
		return stats, errors.E(err, fmt.Sprintf("%s stage", stats.Stage))
	}
	filter := LengthFilter{Min: x.Opts.MinLength, Max: x.Opts.MaxLength, Parallelism: x.Opts.Parallelism}
	x.logf("filtering reads by size (%d, %d) in chunks of %d", filter.Min, filter.Max, x.Opts.ChunkSize)
	var kept []interval.Interval
	for {
		stats.Stage = Loading
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		chunk, err := src.Next(x.Opts.ChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}
		stats.Read += len(chunk)
		stats.Stage = Filtering
		chunkKept, err := filter.Filter(chunk)
		if err != nil {
			return fail(err)
		}
		kept = append(kept, chunkKept...)
		log.Debug.Printf("chunk: %d read, %d kept so far", stats.Read, len(kept))
	}
	stats.Kept = len(kept)

	stats.Stage = Normalizing
	x.logf("defining %dbp intervals for %d reads", x.Opts.Width, len(kept))
	Normalizer{Width: x.Opts.Width, Name: WindowName}.Normalize(kept)

	stats.Stage = Deduping
	x.logf("dropping duplicate intervals")
	ivs := Dedup(kept)
	kept = nil
	stats.Unique = len(ivs)

	stats.Stage = Whitelisting
	x.logf("removing intervals outside %d chromosomes", len(x.Opts.Chromosomes))
	ivs = Whitelist{Chromosomes: x.Opts.Chromosomes}.Apply(ivs)

	stats.Stage = Writing
	x.logf("saving %d intervals to %s", len(ivs), outPath)
	if err := bed.WriteFile(ctx, outPath, ivs); err != nil {
		return fail(err)
	}
	stats.Written = len(ivs)
	stats.Stage = Done
	return stats, nil
}
