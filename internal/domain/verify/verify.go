// Package verify renders the accept/reject decision for one identity.
//
// Verification is strictly any-to-one: the candidate vector is compared
// against the single reference chosen beforehand, never searched across
// all enrolled references. The decision is threshold-based on mean
// per-point Euclidean distance; the similarity score exists only for
// display and plays no part in the decision.
package verify

import (
	"math"

	"github.com/okian/muster/internal/domain/model"
)

// DefaultThreshold is the accept distance bound in the detector's
// normalized coordinate space.
const DefaultThreshold = 0.03

// Reason explains a verification decision.
type Reason string

// Decision reasons.
const (
	ReasonMatch            Reason = "match"
	ReasonNoMatch          Reason = "no match"
	ReasonNoReference      Reason = "no enrolled reference"
	ReasonInvalidReference Reason = "invalid reference"
)

// Decision is the outcome of one verification attempt.
type Decision struct {
	Accepted   bool    `json:"accepted"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
	Reason     Reason  `json:"reason"`
}

// Option applies a configuration option to the Verifier.
type Option func(*Verifier)

// WithThreshold sets the accept distance bound.
func WithThreshold(tau float64) Option {
	return func(v *Verifier) {
		if tau > 0 {
			v.threshold = tau
		}
	}
}

// Verifier compares landmark vectors. It is stateless, side-effect
// free, and safe for concurrent use.
type Verifier struct {
	threshold float64
}

// New creates a Verifier with default configuration.
func New(opts ...Option) *Verifier {
	v := &Verifier{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify compares a freshly extracted candidate against the stored
// reference for one pre-selected identity. A nil reference rejects with
// ReasonNoReference; a point-count mismatch (detector or version drift)
// rejects with ReasonInvalidReference and signals re-enrollment.
// Otherwise it accepts iff the mean per-point distance is strictly
// below the threshold.
func (v *Verifier) Verify(candidate, reference model.LandmarkVector) Decision {
	if len(reference) == 0 {
		return Decision{Reason: ReasonNoReference}
	}
	if len(candidate) != len(reference) {
		return Decision{Reason: ReasonInvalidReference}
	}

	dist := MeanDistance(candidate, reference)
	d := Decision{
		Similarity: math.Max(0, 1-dist/v.threshold),
		Distance:   dist,
		Reason:     ReasonNoMatch,
	}
	if dist < v.threshold {
		d.Accepted = true
		d.Reason = ReasonMatch
	}
	return d
}

// MeanDistance returns the mean per-point Euclidean distance between
// two vectors of equal length.
func MeanDistance(a, b model.LandmarkVector) float64 {
	var sum float64
	for i := range a {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		dz := a[i].Z - b[i].Z
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(len(a))
}
