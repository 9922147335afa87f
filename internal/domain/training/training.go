// Package training fits attendance models from historical records.
//
// Two modes share the feature encoder: regression predicts an event's
// attendance count, classification predicts a binary present/absent
// outcome. Both produce an Artifact carrying the learned parameters
// together with the frozen encoding schema, and a Report with
// evaluation metrics computed on a held-out split.
package training

import (
	"math"
	"time"

	"github.com/okian/muster/internal/domain/feature"
)

// Mode selects what the trained model predicts.
type Mode string

// Training modes.
const (
	ModeRegression     Mode = "regression"
	ModeClassification Mode = "classification"
)

// Default training configuration constants.
const (
	defaultTestRatio = 0.25
	defaultSeed      = 42
	defaultMinRows   = 10
	defaultRidge     = 1e-6
	defaultEpochs    = 1500
	defaultLearnRate = 0.1
)

// Artifact is the opaque trained model plus the encoding schema it was
// trained with. It is created only by an explicit retrain and is
// read-only to predictors.
type Artifact struct {
	Version   int             `json:"version"`
	Mode      Mode            `json:"mode"`
	Weights   []float64       `json:"weights"`
	Intercept float64         `json:"intercept"`
	Mean      []float64       `json:"mean,omitempty"`  // classifier feature standardization
	Scale     []float64       `json:"scale,omitempty"` // classifier feature standardization
	Schema    *feature.Schema `json:"schema"`
	TrainedAt time.Time       `json:"trained_at"`
}

// Score applies the model to one encoded vector. Regression returns
// the raw estimate; classification returns the presence probability.
func (a *Artifact) Score(vec []float64) float64 {
	z := a.Intercept
	for i, w := range a.Weights {
		x := vec[i]
		if len(a.Mean) == len(a.Weights) {
			x = (x - a.Mean[i]) / a.Scale[i]
		}
		z += w * x
	}
	if a.Mode == ModeClassification {
		return sigmoid(z)
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Option applies a configuration option to a Trainer.
type Option func(*Trainer)

// WithTestRatio sets the held-out fraction used for evaluation.
func WithTestRatio(ratio float64) Option {
	return func(t *Trainer) {
		if ratio > 0 && ratio < 1 {
			t.testRatio = ratio
		}
	}
}

// WithSeed sets the split seed. Identical seeds produce identical
// train/test partitions.
func WithSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithMinRows sets the minimum usable row count below which training
// reports insufficient data.
func WithMinRows(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.minRows = n
		}
	}
}

// WithRidge sets the L2 regularization applied to the regression
// normal equations. Keeps collinear one-hot blocks solvable.
func WithRidge(lambda float64) Option {
	return func(t *Trainer) {
		if lambda > 0 {
			t.ridge = lambda
		}
	}
}

// WithGradientDescent tunes the classifier's optimizer.
func WithGradientDescent(epochs int, learnRate float64) Option {
	return func(t *Trainer) {
		if epochs > 0 {
			t.epochs = epochs
		}
		if learnRate > 0 {
			t.learnRate = learnRate
		}
	}
}

// Trainer fits models from feature rows.
type Trainer struct {
	testRatio float64
	seed      int64
	minRows   int
	ridge     float64
	epochs    int
	learnRate float64
}

// New creates a Trainer with default configuration.
func New(opts ...Option) *Trainer {
	t := &Trainer{
		testRatio: defaultTestRatio,
		seed:      defaultSeed,
		minRows:   defaultMinRows,
		ridge:     defaultRidge,
		epochs:    defaultEpochs,
		learnRate: defaultLearnRate,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
