// Package predict scores fresh records against a trained artifact.
//
// Presence prediction is event-level: one feature vector is computed
// for the event and the resulting label is broadcast to every attendee
// of that event. This mirrors how the attendance model is trained and
// is a known limitation for any future per-attendee upgrade, not a bug.
package predict

import (
	"fmt"
	"math"

	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/training"
)

// presenceCutoff converts the classifier probability into a label.
const presenceCutoff = 0.5

// AttendeePresence is the predicted outcome for one attendee.
type AttendeePresence struct {
	AttendeeID  string  `json:"attendee_id"`
	Present     bool    `json:"present"`
	Probability float64 `json:"probability"`
}

// Attendance predicts the attendance count for one event row, rounded
// to the nearest integer and clamped to zero. A nil artifact or one of
// the wrong mode reports ErrUnavailable.
func Attendance(art *training.Artifact, row feature.Row) (int, error) {
	if art == nil || art.Schema == nil {
		return 0, ErrUnavailable
	}
	if art.Mode != training.ModeRegression {
		return 0, fmt.Errorf("%w: artifact mode is %q, want %q", ErrUnavailable, art.Mode, training.ModeRegression)
	}
	estimate := int(math.Round(art.Score(art.Schema.Encode(row))))
	if estimate < 0 {
		estimate = 0
	}
	return estimate, nil
}

// PresenceForEvent predicts presence for every attendee of one event.
// All returned rows carry the identical event-level label. An event
// with no attendees yields an empty result, not an error.
func PresenceForEvent(art *training.Artifact, event model.EventRecord, attendees []model.AttendeeRecord) ([]AttendeePresence, error) {
	if art == nil || art.Schema == nil {
		return nil, ErrUnavailable
	}
	if art.Mode != training.ModeClassification {
		return nil, fmt.Errorf("%w: artifact mode is %q, want %q", ErrUnavailable, art.Mode, training.ModeClassification)
	}
	if len(attendees) == 0 {
		return nil, nil
	}

	probability := art.Score(art.Schema.Encode(feature.Row{Event: event}))
	present := probability >= presenceCutoff

	out := make([]AttendeePresence, len(attendees))
	for i, a := range attendees {
		out[i] = AttendeePresence{
			AttendeeID:  a.ID,
			Present:     present,
			Probability: probability,
		}
	}
	return out, nil
}
