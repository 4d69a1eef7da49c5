package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbpeclip/rbpbind/encoding/bed"
	"github.com/rbpeclip/rbpbind/interval"
)

// FakePipeline is for unittests. It scores each interval of the intervals
// file with ScoreFunc, and records its calls.
type FakePipeline struct {
	ScoreFunc func(iv interval.Interval) float64

	mu    sync.Mutex
	calls []FakeCall
}

// FakeCall records the arguments of one FakePipeline.Predict call.
type FakeCall struct {
	Args      DataloaderArgs
	BatchSize int
	// Intervals is the content of Args.IntervalsFile at the time of the call.
	Intervals []interval.Interval
}

// Predict implements Pipeline.
func (p *FakePipeline) Predict(ctx context.Context, args DataloaderArgs, batchSize int) ([]Prediction, error) {
	ivs, err := bed.ReadFile(ctx, args.IntervalsFile)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.calls = append(p.calls, FakeCall{args, batchSize, ivs})
	p.mu.Unlock()
	preds := make([]Prediction, len(ivs))
	for i, iv := range ivs {
		preds[i] = Prediction{p.ScoreFunc(iv)}
	}
	return preds, nil
}

// Calls returns the calls made so far.
func (p *FakePipeline) Calls() []FakeCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]FakeCall(nil), p.calls...)
}

// FakeResolver resolves names from a fixed map. It is for unittests.
type FakeResolver map[string]Pipeline

// Resolve implements Resolver.
func (r FakeResolver) Resolve(ctx context.Context, name string) (Pipeline, error) {
	p, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("model %s not found", QualifiedName(name))
	}
	return p, nil
}
