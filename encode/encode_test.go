package encode

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const srsf1JSON = `{
  "accession": "ENCFF001ABC",
  "dataset": "/experiments/ENCSR000AAA/",
  "file_format": "bam",
  "output_type": "alignments",
  "assembly": "GRCh38",
  "assay_title": "eCLIP",
  "biosample_ontology": {"term_name": "HepG2", "classification": "cell line"},
  "target": {"label": "SRSF1", "genes": []},
  "status": "released"
}`

func testServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		switch r.URL.Path {
		case "/files/ENCFF001ABC/":
			fmt.Fprint(w, srsf1JSON)
		case "/files/ENCFFBROKEN/":
			fmt.Fprint(w, `{"accession": `)
		case "/files/ENCFFDOWN/":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestLookup(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()
	c := &Client{BaseURL: ts.URL + "/"}
	m, err := c.Lookup(context.Background(), "ENCFF001ABC")
	require.NoError(t, err)
	assert.Equal(t, "ENCFF001ABC", m.Accession)
	assert.Equal(t, "HepG2", m.Biosample.TermName)
	assert.Equal(t, "SRSF1", m.Target.Label)
	assert.Equal(t, "ENCFF001ABC SRSF1 HepG2 eCLIP alignments GRCh38", m.String())
}

func TestLookupErrors(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()
	ctx := context.Background()
	c := &Client{HTTPClient: ts.Client(), BaseURL: ts.URL}

	_, err := c.Lookup(ctx, "ENCFFMISSING")
	require.Error(t, err)
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)

	_, err = c.Lookup(ctx, "ENCFFDOWN")
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Unavailable, err), "%v", err)
	assert.Contains(t, err.Error(), "maintenance")

	_, err = c.Lookup(ctx, "ENCFFBROKEN")
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)

	_, err = c.Lookup(ctx, "")
	assert.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Lookup(canceled, "ENCFF001ABC")
	assert.Error(t, err)
}

func manifestRow(accession, label string) string {
	cols := make([]string, labelCol+3)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%d", i)
	}
	cols[accessionCol] = accession
	cols[labelCol] = label
	return strings.Join(cols, "\t")
}

func TestParseManifest(t *testing.T) {
	data := strings.Join([]string{
		manifestRow("ENCFF001ABC", "SRSF1-HepG2"),
		manifestRow("ENCFF002DEF", "QKI-K562-rep2"),
		manifestRow("ENCFF003GHI", "control"),
	}, "\n") + "\n"
	samples, err := ParseManifest(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []Sample{
		{Accession: "ENCFF001ABC", Label: "SRSF1-HepG2", Name: "SRSF1"},
		{Accession: "ENCFF002DEF", Label: "QKI-K562-rep2", Name: "QKI"},
		{Accession: "ENCFF003GHI", Label: "control", Name: "control"},
	}, samples)

	samples, err = ParseManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, samples, 0)
}

func TestParseManifestShortRow(t *testing.T) {
	data := manifestRow("ENCFF001ABC", "SRSF1-HepG2") + "\nENCFF002DEF\tonly\ttwo\n"
	_, err := ParseManifest(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest line 2")
}

func TestReadManifest(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "metadata.tsv")
	require.NoError(t, ioutil.WriteFile(path, []byte(manifestRow("ENCFF001ABC", "PUM2-K562")+"\n"), 0600))
	samples, err := ReadManifest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []Sample{{Accession: "ENCFF001ABC", Label: "PUM2-K562", Name: "PUM2"}}, samples)

	_, err = ReadManifest(context.Background(), filepath.Join(tempDir, "missing.tsv"))
	assert.Error(t, err)
}
