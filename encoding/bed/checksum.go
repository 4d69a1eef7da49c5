package bed

import (
	"context"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Checksum returns the seahash of the raw bytes of the file at path. Two
// extraction runs over the same input produce files with equal checksums.
func Checksum(ctx context.Context, path string) (sum uint64, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return 0, errors.Wrapf(err, "bed: open %s", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	h := seahash.New()
	if _, err = io.Copy(h, in.Reader(ctx)); err != nil {
		return 0, errors.Wrapf(err, "bed: read %s", path)
	}
	return h.Sum64(), nil
}
