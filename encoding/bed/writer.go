package bed

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rbpeclip/rbpbind/interval"
)

// Write writes the intervals to w as BED6, one per line, in the given order.
func Write(w io.Writer, ivs []interval.Interval) error {
	out := tsv.NewWriter(w)
	for _, iv := range ivs {
		strand := iv.Strand
		if strand == 0 {
			strand = interval.NoStrand
		}
		name := iv.Name
		if name == "" {
			name = "."
		}
		out.WriteString(iv.Chrom)
		out.WriteInt64(iv.Start)
		out.WriteInt64(iv.End)
		out.WriteString(name)
		out.WriteInt64(int64(iv.Score))
		out.WriteByte(strand)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteFile writes the intervals to path, replacing any existing file. The
// output is gzip-compressed if path ends in .gz. On error the partially
// written file is removed.
func WriteFile(ctx context.Context, path string, ivs []interval.Interval) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.Wrapf(err, "bed: create %s", path)
	}
	defer func() {
		file.CloseAndReport(ctx, out, &err)
		if err != nil {
			// Partial interval files are never valid output.
			_ = file.Remove(ctx, path)
		}
	}()
	w := out.Writer(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz := gzip.NewWriter(w)
		if err = Write(gz, ivs); err != nil {
			return errors.Wrapf(err, "bed: write %s", path)
		}
		return gz.Close()
	}
	if err = Write(w, ivs); err != nil {
		return errors.Wrapf(err, "bed: write %s", path)
	}
	return nil
}
