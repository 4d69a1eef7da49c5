package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"v.io/x/lib/cmdline"
)

const testSAM = `@SQ	SN:chr1	LN:100000
@SQ	SN:chrM	LN:16569
a	0	chr1	101	60	100M	*	0	0	*	*
b	16	chr1	201	60	120M	*	0	0	*	*
c	0	chr1	301	60	150M	*	0	0	*	*
d	0	chrM	401	60	100M	*	0	0	*	*
`

// fakeRuntime scores every interval of the intervals file 0.5.
const fakeRuntime = `#!/bin/sh
[ "$2" = "rbp_eclip/SRSF1" ] || { echo "unknown model $2" >&2; exit 1; }
[ "$1" = "info" ] && exit 0
out=""
in=""
for arg in "$@"; do
  case "$arg" in
    --dataloader_args=*) in=$(echo "$arg" | sed 's/.*"intervals_file":"\([^"]*\)".*/\1/') ;;
  esac
done
while [ $# -gt 0 ]; do
  [ "$1" = "-o" ] && out=$2
  shift
done
printf 'metadata/ranges/chr\tpreds\n' > "$out"
awk '{print $1 "\t0.5"}' "$in" >> "$out"
`

func run(t *testing.T, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	env := &cmdline.Env{
		Stdout: &stdout,
		Stderr: &stderr,
		Vars:   map[string]string{"PATH": os.Getenv("PATH")},
	}
	err := cmdline.ParseAndRun(newRoot(), env, args)
	return stdout.String(), err
}

func TestExtractAndPredict(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	in := filepath.Join(tempDir, "reads.sam")
	require.NoError(t, ioutil.WriteFile(in, []byte(testSAM), 0600))
	bedPath := filepath.Join(tempDir, "control.bed")

	stdout, err := run(t, "extract", "-chunk-size", "2", in, bedPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, bedPath+"\t4\t3\t3\t2\t"), stdout)
	data, err := ioutil.ReadFile(bedPath)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t100\t201\t-\t60\t+\nchr1\t200\t301\t-\t60\t-\n", string(data))

	runtime := filepath.Join(tempDir, "fakeruntime")
	require.NoError(t, ioutil.WriteFile(runtime, []byte(fakeRuntime), 0700))
	outDir := filepath.Join(tempDir, "preds")

	stdout, err = run(t, "predict", "-runtime", runtime, "-sample-size", "3", "-iterations", "2",
		"SRSF1", "hg38.fa", "hg38.gtf", outDir, bedPath)
	require.NoError(t, err)
	out := filepath.Join(outDir, "control.6.SRSF1_pred.txt")
	assert.Equal(t, out+"\n", stdout)
	data, err = ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0.5\n0.5\n0.5\n0.5\n0.5\n0.5", string(data))

	stdout, err = run(t, "predict", "-runtime", runtime, "-sample=false", "-output-filename", "full.txt",
		"SRSF1", "hg38.fa", "hg38.gtf", outDir, bedPath)
	require.NoError(t, err)
	data, err = ioutil.ReadFile(filepath.Join(outDir, "full.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0.5\n0.5", string(data))

	_, err = run(t, "predict", "-runtime", runtime, "NOPE", "hg38.fa", "hg38.gtf", outDir, bedPath)
	assert.Error(t, err)
}

func TestExtractChromosomes(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	in := filepath.Join(tempDir, "reads.sam")
	require.NoError(t, ioutil.WriteFile(in, []byte(testSAM), 0600))
	chroms := filepath.Join(tempDir, "chroms.txt")
	require.NoError(t, ioutil.WriteFile(chroms, []byte("# mitochondria only\nchrM\n"), 0600))
	out := filepath.Join(tempDir, "out.bed")

	_, err := run(t, "extract", "-chromosomes", chroms, in, out)
	require.NoError(t, err)
	data, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "chrM\t400\t501\t-\t60\t+\n", string(data))

	_, err = run(t, "extract", "-chromosomes", filepath.Join(tempDir, "missing.txt"), in, out)
	assert.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"extract", "in.bam"},
		{"prepare"},
		{"predict", "SRSF1", "hg38.fa", "hg38.gtf", "out"},
		{"predict", "-output-filename", "x.txt", "SRSF1", "hg38.fa", "hg38.gtf", "out", "a.bed", "b.bed"},
	} {
		_, err := run(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func writeBAM(t *testing.T, path string) {
	chr1, err := sam.NewReference("chr1", "", "", 100000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1})
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := bam.NewWriter(f, header, 1)
	require.NoError(t, err)
	for i, width := range []int{95, 101, 200} {
		rec := &sam.Record{
			Name:    fmt.Sprintf("r%d", i),
			Ref:     chr1,
			Pos:     1000 * (i + 1),
			MapQ:    30,
			Cigar:   sam.Cigar{sam.NewCigarOp(sam.CigarMatch, width)},
			MatePos: -1,
			Seq:     sam.NewSeq(nil),
		}
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestPrepare(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/ENCFF100AAA/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"accession": "ENCFF100AAA", "target": {"label": "SRSF1"}}`)
	}))
	defer ts.Close()

	bamDir := filepath.Join(tempDir, "bam")
	bedDir := filepath.Join(tempDir, "bed")
	require.NoError(t, os.MkdirAll(bamDir, 0777))
	require.NoError(t, os.MkdirAll(bedDir, 0777))
	writeBAM(t, filepath.Join(bamDir, "ENCFF100AAA.bam"))
	cols := make([]string, 19)
	cols[0] = "ENCFF100AAA"
	cols[18] = "SRSF1-HepG2"
	manifest := filepath.Join(tempDir, "metadata.tsv")
	require.NoError(t, ioutil.WriteFile(manifest, []byte(strings.Join(cols, "\t")+"\n"), 0600))

	_, err := run(t, "prepare", "-bam-dir", bamDir, "-bed-dir", bedDir, "-encode-url", ts.URL, manifest)
	require.NoError(t, err)
	data, err := ioutil.ReadFile(filepath.Join(bedDir, "SRSF1.filt.bed"))
	require.NoError(t, err)
	assert.Equal(t, "chr1\t1000\t1101\t-\t30\t+\nchr1\t2000\t2101\t-\t30\t+\n", string(data))

	// The lookup fails for an unknown accession.
	cols[0] = "ENCFF999ZZZ"
	require.NoError(t, ioutil.WriteFile(manifest, []byte(strings.Join(cols, "\t")+"\n"), 0600))
	_, err = run(t, "prepare", "-bam-dir", bamDir, "-bed-dir", bedDir, "-encode-url", ts.URL, manifest)
	assert.Error(t, err)
}
