package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"v.io/x/lib/lookpath"
	"v.io/x/lib/vlog"
)

// DefaultRuntime is the model runtime executable used by CommandResolver.
const DefaultRuntime = "kipoi"

// CommandResolver resolves models served by an external runtime executable
// with a kipoi-compatible command line:
//
//   <runtime> info <model>
//   <runtime> predict <model> --dataloader_args=<json> --batch_size=<n> -o <out.tsv>
//
// The predict output is a TSV file with a header row; columns whose name
// starts with "preds" hold the model outputs.
type CommandResolver struct {
	// Runtime is the executable name, looked up in PATH, or an absolute path.
	// Defaults to DefaultRuntime.
	Runtime string
	// Env holds the environment used for PATH lookup and for running the
	// runtime. If nil, the process environment is used.
	Env map[string]string
	// TempDir is where prediction outputs are staged. Defaults to
	// os.TempDir().
	TempDir string
}

func (r CommandResolver) environ() map[string]string {
	if r.Env != nil {
		return r.Env
	}
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// Resolve implements Resolver. It locates the runtime and checks that it
// knows the model.
func (r CommandResolver) Resolve(ctx context.Context, name string) (Pipeline, error) {
	runtime := r.Runtime
	if runtime == "" {
		runtime = DefaultRuntime
	}
	env := r.environ()
	exe := runtime
	if !filepath.IsAbs(runtime) {
		var err error
		if exe, err = lookpath.Look(env, runtime); err != nil {
			return nil, errors.E(errors.NotExist, err, "model runtime", runtime)
		}
	}
	p := &CommandPipeline{Exe: exe, Model: QualifiedName(name), Env: env, TempDir: r.TempDir}
	if _, err := p.run(ctx, "info", p.Model); err != nil {
		return nil, errors.E(err, "resolve model", p.Model)
	}
	log.Debug.Printf("resolved %s with %s", p.Model, exe)
	return p, nil
}

// CommandPipeline runs predictions through an external runtime executable.
type CommandPipeline struct {
	Exe     string
	Model   string
	Env     map[string]string
	TempDir string
}

func (p *CommandPipeline) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.Exe, args...)
	for k, v := range p.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	vlog.VI(1).Infof("running %s %s", p.Exe, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, errors.E(err, p.Exe, args[0], strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Predict implements Pipeline.
func (p *CommandPipeline) Predict(ctx context.Context, args DataloaderArgs, batchSize int) (preds []Prediction, err error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	dlArgs, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	dir, err := ioutil.TempDir(p.TempDir, "rbpbind")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir) // nolint: errcheck
	outPath := filepath.Join(dir, "preds.tsv")
	if _, err = p.run(ctx, "predict", p.Model,
		"--dataloader_args="+string(dlArgs),
		"--batch_size="+strconv.Itoa(batchSize),
		"-o", outPath); err != nil {
		return nil, errors.E(err, "predict", p.Model, args.IntervalsFile)
	}
	f, err := os.Open(outPath)
	if err != nil {
		return nil, errors.E(err, "predict", p.Model, "no output")
	}
	defer f.Close() // nolint: errcheck
	return ReadPredictions(f)
}

// ReadPredictions parses a prediction TSV. The first row is the header; the
// values of every column whose name starts with "preds" form one Prediction
// per subsequent row, in column order.
func ReadPredictions(in io.Reader) ([]Prediction, error) {
	r := tsv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Reader.Read()
	if err == io.EOF {
		return nil, errors.E(errors.Invalid, "prediction output is empty")
	}
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "prediction output header")
	}
	var cols []int
	for i, name := range header {
		if strings.HasPrefix(name, "preds") {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, errors.E(errors.Invalid, "prediction output has no preds column")
	}
	var preds []Prediction
	for lineIdx := 2; ; lineIdx++ {
		fields, err := r.Reader.Read()
		if err == io.EOF {
			return preds, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "prediction output line", strconv.Itoa(lineIdx))
		}
		pred := make(Prediction, len(cols))
		for j, col := range cols {
			if col >= len(fields) {
				return nil, errors.E(errors.Invalid, "prediction output line", strconv.Itoa(lineIdx), "is too short")
			}
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, errors.E(errors.Invalid, err, "prediction output line", strconv.Itoa(lineIdx))
			}
			pred[j] = v
		}
		preds = append(preds, pred)
	}
}
