package training

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Class order used for classification metrics and confusion rows.
var classNames = []string{"absent", "present"}

// Importance is one column's regression coefficient.
type Importance struct {
	Column string  `json:"column"`
	Weight float64 `json:"weight"`
}

// ROCCurve holds paired false/true positive rates per threshold, as
// numeric arrays. Rendering is an external concern.
type ROCCurve struct {
	FPR        []float64 `json:"fpr"`
	TPR        []float64 `json:"tpr"`
	Thresholds []float64 `json:"thresholds"`
}

// Report carries evaluation metrics for one training run. Regression
// fills the error metrics and importances; classification fills
// accuracy, the per-class breakdown, the confusion matrix, and the
// ROC arrays.
type Report struct {
	Mode      Mode `json:"mode"`
	Rows      int  `json:"rows"`
	TrainRows int  `json:"train_rows"`
	TestRows  int  `json:"test_rows"`

	MAE  float64 `json:"mae,omitempty"`
	RMSE float64 `json:"rmse,omitempty"`

	Accuracy  float64   `json:"accuracy,omitempty"`
	Classes   []string  `json:"classes,omitempty"`
	Precision []float64 `json:"precision,omitempty"`
	Recall    []float64 `json:"recall,omitempty"`
	F1        []float64 `json:"f1,omitempty"`
	Confusion [][]int   `json:"confusion,omitempty"` // [actual][predicted]
	ROC       *ROCCurve `json:"roc,omitempty"`

	Importances []Importance `json:"importances,omitempty"`
}

func evaluateRegression(art *Artifact, x *mat.Dense, y []float64, testIdx []int) *Report {
	report := &Report{Mode: ModeRegression}
	if len(testIdx) == 0 {
		return report
	}

	var absSum, sqSum float64
	for _, i := range testIdx {
		diff := art.Score(x.RawRowView(i)) - y[i]
		absSum += abs(diff)
		sqSum += diff * diff
	}
	n := float64(len(testIdx))
	report.MAE = absSum / n
	report.RMSE = math.Sqrt(sqSum / n)
	return report
}

func evaluateClassifier(art *Artifact, x *mat.Dense, y []float64, testIdx []int) *Report {
	report := &Report{Mode: ModeClassification, Classes: classNames}
	if len(testIdx) == 0 {
		return report
	}

	probs := make([]float64, len(testIdx))
	labels := make([]float64, len(testIdx))
	confusion := [][]int{{0, 0}, {0, 0}}
	correct := 0
	for i, r := range testIdx {
		probs[i] = art.Score(x.RawRowView(r))
		labels[i] = y[r]

		predicted := 0
		if probs[i] >= 0.5 {
			predicted = 1
		}
		actual := int(y[r])
		confusion[actual][predicted]++
		if predicted == actual {
			correct++
		}
	}

	report.Accuracy = float64(correct) / float64(len(testIdx))
	report.Confusion = confusion
	report.Precision = make([]float64, len(classNames))
	report.Recall = make([]float64, len(classNames))
	report.F1 = make([]float64, len(classNames))
	for c := range classNames {
		tp := confusion[c][c]
		var predictedC, actualC int
		for other := range classNames {
			predictedC += confusion[other][c]
			actualC += confusion[c][other]
		}
		report.Precision[c] = ratio(tp, predictedC)
		report.Recall[c] = ratio(tp, actualC)
		if report.Precision[c]+report.Recall[c] > 0 {
			report.F1[c] = 2 * report.Precision[c] * report.Recall[c] / (report.Precision[c] + report.Recall[c])
		}
	}
	report.ROC = rocCurve(probs, labels)
	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// rocCurve sweeps the distinct predicted probabilities from permissive
// to strict, classifying score >= threshold as positive at each step.
func rocCurve(probs, labels []float64) *ROCCurve {
	var positives, negatives int
	for _, l := range labels {
		if l == 1 {
			positives++
		} else {
			negatives++
		}
	}

	thresholds := distinctDescending(probs)
	curve := &ROCCurve{
		FPR:        make([]float64, 0, len(thresholds)+1),
		TPR:        make([]float64, 0, len(thresholds)+1),
		Thresholds: make([]float64, 0, len(thresholds)+1),
	}
	// Leading point where nothing is classified positive.
	curve.FPR = append(curve.FPR, 0)
	curve.TPR = append(curve.TPR, 0)
	curve.Thresholds = append(curve.Thresholds, math.Inf(1))

	for _, th := range thresholds {
		var tp, fp int
		for i, p := range probs {
			if p < th {
				continue
			}
			if labels[i] == 1 {
				tp++
			} else {
				fp++
			}
		}
		curve.FPR = append(curve.FPR, ratio(fp, negatives))
		curve.TPR = append(curve.TPR, ratio(tp, positives))
		curve.Thresholds = append(curve.Thresholds, th)
	}
	return curve
}

func distinctDescending(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
