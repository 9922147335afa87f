package training

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/muster/internal/domain/feature"
)

// ArtifactVersion identifies the persisted artifact layout.
const ArtifactVersion = 1

// TrainRegression fits a ridge-regularized least-squares model that
// predicts an event's attendance count. Labels are the observed
// attendance of each usable row.
func (t *Trainer) TrainRegression(rows []feature.Row) (*Artifact, *Report, error) {
	schema, x, kept, err := feature.Fit(rows)
	if err != nil {
		return nil, nil, err
	}
	if len(kept) < t.minRows {
		return nil, nil, fmt.Errorf("%w: %d usable rows, need %d", ErrInsufficientData, len(kept), t.minRows)
	}

	y := make([]float64, len(kept))
	for i, r := range kept {
		y[i] = float64(*r.Event.Attendance)
	}

	trainIdx, testIdx := split(len(kept), t.testRatio, t.seed)

	weights, intercept, err := solveRidge(pickRows(x, trainIdx), pick(y, trainIdx), t.ridge)
	if err != nil {
		return nil, nil, err
	}

	art := &Artifact{
		Version:   ArtifactVersion,
		Mode:      ModeRegression,
		Weights:   weights,
		Intercept: intercept,
		Schema:    schema,
		TrainedAt: time.Now().UTC(),
	}

	report := evaluateRegression(art, x, y, testIdx)
	report.Rows = len(kept)
	report.TrainRows = len(trainIdx)
	report.TestRows = len(testIdx)
	report.Importances = importances(schema, weights)
	return art, report, nil
}

// solveRidge solves (A'A + lambda*I) theta = A'y with an appended
// intercept column. The ridge term keeps the collinear one-hot blocks
// nonsingular.
func solveRidge(a *mat.Dense, y []float64, lambda float64) (weights []float64, intercept float64, err error) {
	n, d := a.Dims()
	aug := mat.NewDense(n, d+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			aug.Set(i, j, a.At(i, j))
		}
		aug.Set(i, d, 1)
	}

	var gram mat.Dense
	gram.Mul(aug.T(), aug)
	for j := 0; j <= d; j++ {
		gram.Set(j, j, gram.At(j, j)+lambda)
	}

	var rhs mat.VecDense
	rhs.MulVec(aug.T(), mat.NewVecDense(n, y))

	var theta mat.VecDense
	if err := theta.SolveVec(&gram, &rhs); err != nil {
		return nil, 0, fmt.Errorf("solve normal equations: %w", err)
	}

	weights = make([]float64, d)
	for j := 0; j < d; j++ {
		weights[j] = theta.AtVec(j)
	}
	return weights, theta.AtVec(d), nil
}

// importances pairs every column with its coefficient, sorted by
// absolute weight descending.
func importances(schema *feature.Schema, weights []float64) []Importance {
	cols := schema.Columns()
	out := make([]Importance, 0, len(weights))
	for i, w := range weights {
		out = append(out, Importance{Column: cols[i], Weight: w})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return abs(out[i].Weight) > abs(out[j].Weight)
	})
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// pickRows copies the selected rows of x into a new matrix.
func pickRows(x *mat.Dense, idx []int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, x.RawRowView(r))
	}
	return out
}

// pick copies the selected elements of y into a new slice.
func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
