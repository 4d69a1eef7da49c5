package bamtobed

import (
	"io"

	"github.com/grailbio/hts/sam"
)

// fakeRecordReader is only for unittests. It yields the given records.
type fakeRecordReader struct {
	header *sam.Header
	recs   []*sam.Record
}

// NewFakeRecordReader creates a RecordReader that returns header in response
// to a Header() call, and copies of recs from successive Read() calls.
func NewFakeRecordReader(header *sam.Header, recs []*sam.Record) RecordReader {
	return &fakeRecordReader{header, recs}
}

// Header implements the RecordReader interface.
func (f *fakeRecordReader) Header() *sam.Header {
	return f.header
}

// Read implements the RecordReader interface.
func (f *fakeRecordReader) Read() (*sam.Record, error) {
	if len(f.recs) == 0 {
		return nil, io.EOF
	}
	// Return a copy so that the code under test cannot alter the
	// original test input data.
	rec := sam.GetFromFreePool()
	*rec = *f.recs[0]
	f.recs = f.recs[1:]
	return rec, nil
}
