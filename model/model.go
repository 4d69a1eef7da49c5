// Package model is the boundary to the pretrained RBP binding-affinity
// models. A model name is resolved once to a Pipeline, which scores every
// interval of an interval file against a reference genome and annotation.
package model

import (
	"context"
)

const (
	// DefaultBatchSize is the number of intervals scored per inference call.
	DefaultBatchSize = 250
	// Group is the model group under which the RBP eCLIP models are published.
	Group = "rbp_eclip"
)

// QualifiedName returns the full model identifier for an RBP name, e.g.
// "rbp_eclip/SRSF1" for "SRSF1".
func QualifiedName(name string) string {
	return Group + "/" + name
}

// Prediction is the model output for one interval. Element 0 is the binding
// affinity score.
type Prediction []float64

// Score returns the binding affinity score.
func (p Prediction) Score() float64 {
	return p[0]
}

// DataloaderArgs is the configuration bundle handed to the model's
// dataloader.
type DataloaderArgs struct {
	IntervalsFile string `json:"intervals_file"`
	FastaFile     string `json:"fasta_file"`
	GtfFile       string `json:"gtf_file"`
	UseLinecache  bool   `json:"use_linecache"`
}

// Pipeline scores interval files. Implementations must return exactly one
// Prediction per interval, in file order. A Pipeline is immutable once
// resolved and may be reused for any number of sequential calls.
type Pipeline interface {
	Predict(ctx context.Context, args DataloaderArgs, batchSize int) ([]Prediction, error)
}

// Resolver maps a model name to a Pipeline.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Pipeline, error)
}
