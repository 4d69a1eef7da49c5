// Package bootstrap scores interval files with an RBP binding model, either
// on a bootstrap sample of each file or on the whole file, and writes one
// score per line.
package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/rbpeclip/rbpbind/encoding/bed"
	"github.com/rbpeclip/rbpbind/model"
)

// Opts defines the behavior of a Predictor.
type Opts struct {
	// Mode selects bootstrap sampling or a full pass. Defaults to
	// DefaultBootstrap.
	Mode SamplingMode
	// Seed seeds the sampler. Each file is sampled with a fresh generator, so
	// the sample of a file does not depend on the files processed before it.
	Seed int64
	// BatchSize is passed to the model pipeline.
	BatchSize int
	// FastaFile and GtfFile are the reference genome and its annotation.
	FastaFile, GtfFile string
	// OutputDir receives the score files. It is created if needed.
	OutputDir string
	// OutputFilename, if set, replaces the derived score file name.
	OutputFilename string
	// Verbose enables progress logging.
	Verbose bool
}

// DefaultOpts holds the values used by the rbpbind command.
var DefaultOpts = Opts{
	Mode:      DefaultBootstrap,
	BatchSize: model.DefaultBatchSize,
	OutputDir: ".",
}

// Predictor scores interval files with one resolved model. Thread compatible.
type Predictor struct {
	Pipeline model.Pipeline
	// Model is the short model name, e.g. "SRSF1", used in output names.
	Model string
	Opts  Opts
}

// New creates a Predictor.
func New(pipeline model.Pipeline, modelName string, opts Opts) *Predictor {
	if opts.Mode == nil {
		opts.Mode = DefaultOpts.Mode
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOpts.BatchSize
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOpts.OutputDir
	}
	return &Predictor{Pipeline: pipeline, Model: modelName, Opts: opts}
}

func (p *Predictor) logf(format string, args ...interface{}) {
	if p.Opts.Verbose {
		log.Printf(format, args...)
	}
}

// trimExt removes the last extension of the file name in path.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// SamplePrefix returns the input path without its extension, followed by the
// number of scored intervals, e.g. "data/control.50000" for
// "data/control.bed".
func SamplePrefix(bedPath string, draws int) string {
	return trimExt(bedPath) + "." + strconv.Itoa(draws)
}

// OutputName returns the score file name for an input file:
// {basename-without-extension}.{draws}.{model}_pred.txt.
func OutputName(bedPath string, draws int, modelName string) string {
	return filepath.Base(SamplePrefix(bedPath, draws)) + "." + modelName + "_pred.txt"
}

// Predict scores the interval file at bedPath and returns the path of the
// score file. An existing score file at that path is overwritten. In
// Bootstrap mode the sampled intervals are also written to
// SamplePrefix(bedPath)+".bed", and are left in place even if scoring fails.
func (p *Predictor) Predict(ctx context.Context, bedPath string) (string, error) {
	runID := uuid.New().String()
	p.logf("========== %s (run %s) ==========", bedPath, runID)
	set, err := bed.ReadFile(ctx, bedPath)
	if err != nil {
		return "", errors.E(err, "predict", bedPath)
	}
	draws := p.Opts.Mode.Draws(len(set))
	prefix := SamplePrefix(bedPath, draws)
	intervalsFile := bedPath
	nRows := len(set)
	if b, ok := p.Opts.Mode.(Bootstrap); ok {
		p.logf("performing bootstrap sampling (n=%d, iterations=%d)", b.Size, b.Iterations)
		sample, err := Sample(set, b, rand.New(rand.NewSource(p.Opts.Seed)))
		if err != nil {
			return "", errors.E(err, "predict", bedPath)
		}
		intervalsFile = prefix + ".bed"
		if err := bed.WriteFile(ctx, intervalsFile, sample); err != nil {
			return "", errors.E(err, "predict", bedPath)
		}
		nRows = len(sample)
	}
	set = nil

	p.logf("predicting %d intervals with %s", nRows, model.QualifiedName(p.Model))
	preds, err := p.Pipeline.Predict(ctx, model.DataloaderArgs{
		IntervalsFile: intervalsFile,
		FastaFile:     p.Opts.FastaFile,
		GtfFile:       p.Opts.GtfFile,
		UseLinecache:  true,
	}, p.Opts.BatchSize)
	if err != nil {
		return "", errors.E(err, "predict", bedPath)
	}
	if len(preds) != nRows {
		return "", errors.E(errors.Integrity, "predict", bedPath,
			fmt.Sprintf("model returned %d predictions for %d intervals", len(preds), nRows))
	}

	name := p.Opts.OutputFilename
	if name == "" {
		name = OutputName(bedPath, draws, p.Model)
	}
	outPath := filepath.Join(p.Opts.OutputDir, name)
	p.logf("saving to %s", outPath)
	if err := os.MkdirAll(p.Opts.OutputDir, 0777); err != nil {
		return "", errors.E(err, "predict", bedPath)
	}
	if err := WriteScores(ctx, outPath, preds); err != nil {
		return "", errors.E(err, "predict", bedPath)
	}
	p.logf("done")
	return outPath, nil
}

// PredictAll scores each file in turn, stopping at the first failure. It
// returns the score files written so far.
func (p *Predictor) PredictAll(ctx context.Context, bedPaths []string) ([]string, error) {
	var outs []string
	for _, path := range bedPaths {
		out, err := p.Predict(ctx, path)
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// WriteScores writes the score of each prediction on its own line, in order,
// replacing any existing file at path. There is no newline after the last
// score.
func WriteScores(ctx context.Context, path string, preds []model.Prediction) (err error) {
	// Validate before Create truncates an existing file.
	for i, pred := range preds {
		if len(pred) == 0 {
			return errors.E(errors.Invalid, fmt.Sprintf("empty prediction for row %d", i), path)
		}
	}
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	buf := make([]byte, 0, 64<<10)
	for i, pred := range preds {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = strconv.AppendFloat(buf, pred.Score(), 'g', -1, 64)
		if len(buf) >= 60<<10 {
			if _, err = w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	_, err = w.Write(buf)
	return err
}
