package bamtobed

import (
	"context"
	"io"
	"runtime"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
	"github.com/rbpeclip/rbpbind/interval"
	"v.io/x/lib/vlog"
)

// RecordReader is implemented by both hts sam.Reader and hts bam.Reader.
type RecordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// Opts defines the behavior of Open.
type Opts struct {
	// Parallelism is the number of BGZF decompression goroutines used for BAM
	// input. If <= 0, runtime.NumCPU() is used.
	Parallelism int
}

// Reader converts alignment records into intervals. Thread compatible.
type Reader struct {
	path   string
	rr     RecordReader
	closer func() error
	nRecs  int
	nSkip  int
}

// NewReader creates a Reader that converts records produced by rr. The
// caller remains responsible for closing whatever rr reads from.
func NewReader(rr RecordReader) *Reader {
	return &Reader{path: "<stream>", rr: rr, closer: func() error { return nil }}
}

// Open opens a SAM (".sam" suffix) or BAM (anything else) file.
func Open(ctx context.Context, path string, opts Opts) (*Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "bamtobed: open %s", path)
	}
	r := &Reader{path: path}
	if strings.HasSuffix(path, ".sam") {
		sr, err := sam.NewReader(in.Reader(ctx))
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, errors.Wrapf(err, "bamtobed: %s: failed to open SAM", path)
		}
		r.rr = sr
		r.closer = func() error { return in.Close(ctx) }
		return r, nil
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	br, err := bam.NewReader(in.Reader(ctx), parallelism)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.Wrapf(err, "bamtobed: %s: failed to open BAM", path)
	}
	r.rr = br
	r.closer = func() error {
		err := br.Close()
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
		return err
	}
	return r, nil
}

// Header returns the SAM header of the underlying file.
func (r *Reader) Header() *sam.Header {
	return r.rr.Header()
}

// Next returns the intervals of the next n mapped reads, or fewer if the
// input ends first. At the end of the input it returns an empty slice and
// io.EOF.
func (r *Reader) Next(n int) ([]interval.Interval, error) {
	ivs := make([]interval.Interval, 0, chunkCap(n))
	for len(ivs) < n {
		rec, err := r.rr.Read()
		if rec == nil {
			if err != io.EOF {
				if err == nil {
					err = errors.New("nil record")
				}
				return ivs, errors.Wrapf(err, "bamtobed: %s: failed to read record %d", r.path, r.nRecs)
			}
			if len(ivs) == 0 {
				vlog.VI(1).Infof("%s: %d records, %d unmapped", r.path, r.nRecs, r.nSkip)
				return ivs, io.EOF
			}
			return ivs, nil
		}
		r.nRecs++
		iv, ok := FromRecord(rec)
		sam.PutInFreePool(rec)
		if !ok {
			r.nSkip++
			continue
		}
		ivs = append(ivs, iv)
	}
	return ivs, nil
}

func chunkCap(n int) int {
	if n > 1<<16 {
		return 1 << 16
	}
	return n
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.closer()
}

// FromRecord converts a single alignment record. It returns false for
// unmapped reads.
func FromRecord(rec *sam.Record) (interval.Interval, bool) {
	if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil {
		return interval.Interval{}, false
	}
	iv := interval.Interval{
		Chrom:  rec.Ref.Name(),
		Start:  int64(rec.Pos),
		End:    int64(rec.End()),
		Name:   rec.Name,
		Score:  int(rec.MapQ),
		Strand: '+',
	}
	if rec.Flags&sam.Reverse != 0 {
		iv.Strand = '-'
	}
	if rec.Flags&sam.Paired != 0 {
		if rec.Flags&sam.Read1 != 0 {
			iv.Name += "/1"
		} else if rec.Flags&sam.Read2 != 0 {
			iv.Name += "/2"
		}
	}
	return iv, true
}
