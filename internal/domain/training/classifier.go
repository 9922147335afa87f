package training

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/muster/internal/domain/feature"
)

// TrainClassifier fits a logistic-regression model that predicts a
// binary present/absent outcome for attendee rows. The label is 1 when
// the attendee's recorded status is "Present" (case-insensitive).
func (t *Trainer) TrainClassifier(rows []feature.Row) (*Artifact, *Report, error) {
	schema, x, kept, err := feature.Fit(rows)
	if err != nil {
		return nil, nil, err
	}
	if len(kept) < t.minRows {
		return nil, nil, fmt.Errorf("%w: %d usable rows, need %d", ErrInsufficientData, len(kept), t.minRows)
	}

	y := make([]float64, len(kept))
	for i, r := range kept {
		if PresentLabel(r) {
			y[i] = 1
		}
	}

	trainIdx, testIdx := split(len(kept), t.testRatio, t.seed)
	trainX := pickRows(x, trainIdx)
	trainY := pick(y, trainIdx)

	mean, scale := standardize(trainX)
	weights, intercept := t.descend(trainX, trainY, mean, scale)

	art := &Artifact{
		Version:   ArtifactVersion,
		Mode:      ModeClassification,
		Weights:   weights,
		Intercept: intercept,
		Mean:      mean,
		Scale:     scale,
		Schema:    schema,
		TrainedAt: time.Now().UTC(),
	}

	report := evaluateClassifier(art, x, y, testIdx)
	report.Rows = len(kept)
	report.TrainRows = len(trainIdx)
	report.TestRows = len(testIdx)
	return art, report, nil
}

// PresentLabel reports whether a row counts as a positive (present)
// training example.
func PresentLabel(r feature.Row) bool {
	return r.Attendee != nil && strings.EqualFold(string(r.Attendee.Status), "present")
}

// standardize computes per-column mean and standard deviation of the
// training matrix. Constant columns get scale 1 so division is safe.
func standardize(x *mat.Dense) (mean, scale []float64) {
	n, d := x.Dims()
	mean = make([]float64, d)
	scale = make([]float64, d)
	for j := 0; j < d; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x.At(i, j)
		}
		mean[j] = sum / float64(n)

		var sq float64
		for i := 0; i < n; i++ {
			dev := x.At(i, j) - mean[j]
			sq += dev * dev
		}
		scale[j] = math.Sqrt(sq / float64(n))
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return mean, scale
}

// descend runs full-batch gradient descent on the logistic loss over
// standardized features. Initialization is zero, so the result is
// fully deterministic.
func (t *Trainer) descend(x *mat.Dense, y, mean, scale []float64) (weights []float64, intercept float64) {
	n, d := x.Dims()
	weights = make([]float64, d)

	z := make([]float64, d) // standardized row buffer
	gradW := make([]float64, d)
	for epoch := 0; epoch < t.epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		var gradB float64
		for i := 0; i < n; i++ {
			var dot float64
			for j := 0; j < d; j++ {
				z[j] = (x.At(i, j) - mean[j]) / scale[j]
				dot += weights[j] * z[j]
			}
			residual := sigmoid(dot+intercept) - y[i]
			for j := 0; j < d; j++ {
				gradW[j] += residual * z[j]
			}
			gradB += residual
		}
		step := t.learnRate / float64(n)
		for j := 0; j < d; j++ {
			weights[j] -= step * gradW[j]
		}
		intercept -= step * gradB
	}
	return weights, intercept
}
