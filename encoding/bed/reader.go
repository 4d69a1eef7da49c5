package bed

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/rbpeclip/rbpbind/interval"
)

const maxLineLen = 1 << 20

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// isHeaderLine reports whether the line is a comment, track or browser line.
func isHeaderLine(line []byte) bool {
	if len(line) == 0 {
		return false
	}
	if line[0] == '#' {
		return true
	}
	s := gunsafe.BytesToString(line)
	return len(s) >= 5 && s[:5] == "track" || len(s) >= 7 && s[:7] == "browser"
}

// Reader reads intervals from a BED stream. Thread compatible.
type Reader struct {
	scanner *bufio.Scanner
	lineIdx int
	tokens  [6][]byte
}

// NewReader creates a reader for an uncompressed BED stream.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxLineLen)
	return &Reader{scanner: scanner}
}

// Read returns the next n intervals, or fewer if the stream ends first. At the
// end of the stream it returns an empty slice and io.EOF.
func (r *Reader) Read(n int) ([]interval.Interval, error) {
	ivs := make([]interval.Interval, 0, initialCap(n))
	for len(ivs) < n && r.scanner.Scan() {
		r.lineIdx++
		line := r.scanner.Bytes()
		if isHeaderLine(line) {
			continue
		}
		nToken := getTokens(r.tokens[:], line)
		if nToken == 0 {
			continue
		}
		iv, err := r.parse(nToken)
		if err != nil {
			return ivs, err
		}
		ivs = append(ivs, iv)
	}
	if err := r.scanner.Err(); err != nil {
		return ivs, errors.Wrapf(err, "bed: line %d", r.lineIdx)
	}
	if len(ivs) == 0 {
		return ivs, io.EOF
	}
	return ivs, nil
}

func initialCap(n int) int {
	if n > 1<<16 {
		return 1 << 16
	}
	return n
}

func (r *Reader) parse(nToken int) (iv interval.Interval, err error) {
	if nToken < 3 {
		err = errors.Errorf("bed: line %d has fewer than 3 columns", r.lineIdx)
		return
	}
	iv.Chrom = string(r.tokens[0])
	if iv.Start, err = strconv.ParseInt(gunsafe.BytesToString(r.tokens[1]), 10, 64); err != nil {
		err = errors.Wrapf(err, "bed: line %d: start", r.lineIdx)
		return
	}
	if iv.End, err = strconv.ParseInt(gunsafe.BytesToString(r.tokens[2]), 10, 64); err != nil {
		err = errors.Wrapf(err, "bed: line %d: end", r.lineIdx)
		return
	}
	if iv.Start < 0 || iv.End < iv.Start {
		err = errors.Errorf("bed: line %d: invalid coordinate pair [%d, %d)", r.lineIdx, iv.Start, iv.End)
		return
	}
	iv.Strand = interval.NoStrand
	if nToken > 3 {
		iv.Name = string(r.tokens[3])
	}
	if nToken > 4 && !(len(r.tokens[4]) == 1 && r.tokens[4][0] == '.') {
		if iv.Score, err = strconv.Atoi(gunsafe.BytesToString(r.tokens[4])); err != nil {
			err = errors.Wrapf(err, "bed: line %d: score", r.lineIdx)
			return
		}
	}
	if nToken > 5 {
		if len(r.tokens[5]) != 1 {
			err = errors.Errorf("bed: line %d: invalid strand %q", r.lineIdx, r.tokens[5])
			return
		}
		switch s := r.tokens[5][0]; s {
		case '+', '-', '.':
			iv.Strand = s
		default:
			err = errors.Errorf("bed: line %d: invalid strand %q", r.lineIdx, r.tokens[5])
			return
		}
	}
	return
}

// ReadAll reads every remaining interval in the stream.
func (r *Reader) ReadAll() ([]interval.Interval, error) {
	var all []interval.Interval
	for {
		ivs, err := r.Read(1 << 16)
		all = append(all, ivs...)
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return all, err
		}
	}
}

// ReadFile reads all intervals from the BED file at path.
func ReadFile(ctx context.Context, path string) (ivs []interval.Interval, err error) {
	err = WithReader(ctx, path, func(r *Reader) error {
		var e error
		ivs, e = r.ReadAll()
		return e
	})
	return
}

// WithReader opens path, gunzipping it if the name says so, and calls fn
// with a Reader over its contents. The file is closed when fn returns.
func WithReader(ctx context.Context, path string, fn func(r *Reader) error) (err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return errors.Wrapf(err, "bed: open %s", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return errors.Wrapf(err, "bed: %s", path)
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	if err = fn(NewReader(reader)); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}
