package encode

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

const (
	// accessionCol and labelCol are the 0-based manifest columns holding the
	// alignment file accession and the sample label.
	accessionCol = 0
	labelCol     = 18
)

// Sample is one row of the manifest.
type Sample struct {
	// Accession names the alignment file, {Accession}.bam.
	Accession string
	// Label is the full sample label, e.g. "SRSF1-HepG2".
	Label string
	// Name is the label up to its first '-', e.g. "SRSF1".
	Name string
}

// ParseManifest reads a headerless, tab-separated metadata table.
func ParseManifest(in io.Reader) ([]Sample, error) {
	r := tsv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var samples []Sample
	for lineIdx := 1; ; lineIdx++ {
		row, err := r.Reader.Read()
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "manifest line", strconv.Itoa(lineIdx))
		}
		if len(row) <= labelCol {
			return nil, errors.E(errors.Invalid, "manifest line", strconv.Itoa(lineIdx),
				"has", strconv.Itoa(len(row)), "columns, need", strconv.Itoa(labelCol+1))
		}
		s := Sample{Accession: row[accessionCol], Label: row[labelCol], Name: row[labelCol]}
		if i := strings.IndexByte(s.Label, '-'); i >= 0 {
			s.Name = s.Label[:i]
		}
		samples = append(samples, s)
	}
}

// ReadManifest reads the manifest at path.
func ReadManifest(ctx context.Context, path string) (samples []Sample, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "manifest", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	if samples, err = ParseManifest(in.Reader(ctx)); err != nil {
		return nil, errors.E(err, "manifest", path)
	}
	return samples, nil
}
