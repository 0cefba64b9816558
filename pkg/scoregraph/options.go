package scoregraph

import (
	"math"

	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
)

// Options configures a graph. Zero fields take the defaults below.
type Options struct {
	// Rule derives scores. Defaults to AverageRule(DefaultMaxScore).
	Rule ScoringRule
	// MaxIterations bounds the general variant's passes and, multiplied by
	// the node count, the forest variant's rule evaluations.
	MaxIterations int
	// Tolerance is the largest score difference still treated as unchanged.
	// Zero means DefaultTolerance; exact comparison is not offered.
	Tolerance float64
	// Workers fans the general variant's compute phase out over a worker
	// pool owned by the graph until Close. Values <= 1 compute sequentially.
	Workers int
	// ParallelThreshold is the minimum node count before Workers applies.
	ParallelThreshold int
	Logger            logging.Logger
	Recorder          Recorder
}

const (
	DefaultMaxIterations     = 100
	DefaultTolerance         = 1e-9
	DefaultParallelThreshold = 512
)

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Rule:              AverageRule(DefaultMaxScore),
		MaxIterations:     DefaultMaxIterations,
		Tolerance:         DefaultTolerance,
		Workers:           1,
		ParallelThreshold: DefaultParallelThreshold,
		Logger:            logging.NewNopLogger(),
		Recorder:          nopRecorder{},
	}
}

// Validate checks the explicitly set fields.
func (o Options) Validate() error {
	switch {
	case o.MaxIterations < 0:
		return NewError("validate").Options("MaxIterations must not be negative").Cause(ErrInvalidOptions).Err()
	case o.Tolerance < 0 || math.IsNaN(o.Tolerance):
		return NewError("validate").Options("Tolerance must be a non-negative number").Cause(ErrInvalidOptions).Err()
	case o.Workers < 0:
		return NewError("validate").Options("Workers must not be negative").Cause(ErrInvalidOptions).Err()
	case o.ParallelThreshold < 0:
		return NewError("validate").Options("ParallelThreshold must not be negative").Cause(ErrInvalidOptions).Err()
	}
	return nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Rule == nil {
		o.Rule = d.Rule
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = d.Tolerance
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = d.ParallelThreshold
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	if o.Recorder == nil {
		o.Recorder = d.Recorder
	}
	return o
}
