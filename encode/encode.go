// Package encode looks up ENCODE file metadata and reads the sample manifest
// that lists which alignment files to prepare.
package encode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
)

// DefaultBaseURL is the ENCODE portal.
const DefaultBaseURL = "https://www.encodeproject.org"

// FileMetadata is the subset of an ENCODE file object used to label runs.
type FileMetadata struct {
	Accession  string `json:"accession"`
	Dataset    string `json:"dataset"`
	FileFormat string `json:"file_format"`
	OutputType string `json:"output_type"`
	Assembly   string `json:"assembly"`
	AssayTitle string `json:"assay_title"`
	Biosample  struct {
		TermName string `json:"term_name"`
	} `json:"biosample_ontology"`
	Target struct {
		Label string `json:"label"`
	} `json:"target"`
}

// String returns a one-line description for logs.
func (m FileMetadata) String() string {
	parts := []string{m.Accession}
	for _, s := range []string{m.Target.Label, m.Biosample.TermName, m.AssayTitle, m.OutputType, m.Assembly} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Client fetches file metadata from the ENCODE portal.
type Client struct {
	// HTTPClient performs requests. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
}

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Lookup fetches the metadata of the file with the given accession. Any
// transport, status or decoding failure is returned as an error.
func (c *Client) Lookup(ctx context.Context, accession string) (FileMetadata, error) {
	var m FileMetadata
	if accession == "" {
		return m, errors.E(errors.Invalid, "encode: empty accession")
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = defaultHTTPClient
	}
	u := fmt.Sprintf("%s/files/%s/?format=json", strings.TrimSuffix(base, "/"), url.PathEscape(accession))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return m, errors.E(err, "encode: lookup", accession)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return m, errors.E(errors.Net, err, "encode: lookup", accession)
	}
	defer resp.Body.Close() // nolint: errcheck
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
		kind := errors.Unavailable
		if resp.StatusCode == http.StatusNotFound {
			kind = errors.NotExist
		}
		return m, errors.E(kind, "encode: lookup", accession, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return m, errors.E(errors.Invalid, err, "encode: decode", accession)
	}
	return m, nil
}
