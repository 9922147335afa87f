package predict_test

import (
	"errors"
	"testing"

	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/predict"
	"github.com/okian/muster/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

// fittedSchema freezes a minimal two-row schema for hand-built artifacts.
func fittedSchema() *feature.Schema {
	a, b := 40, 20
	schema, _, _, err := feature.Fit([]feature.Row{
		{Event: model.EventRecord{Date: "2025-01-06", Time: "09:00", Location: "Main Hall", Status: model.EventCompleted, Attendance: &a}},
		{Event: model.EventRecord{Date: "2025-01-07", Time: "10:00", Location: "Rooftop", Status: model.EventCompleted, Attendance: &b}},
	})
	if err != nil {
		panic(err)
	}
	return schema
}

// constantArtifact predicts the same value for every input: all weights
// zero, the intercept carries the estimate.
func constantArtifact(mode training.Mode, intercept float64) *training.Artifact {
	schema := fittedSchema()
	return &training.Artifact{
		Version:   training.ArtifactVersion,
		Mode:      mode,
		Weights:   make([]float64, schema.Width()),
		Intercept: intercept,
		Schema:    schema,
	}
}

func TestAttendance(t *testing.T) {
	Convey("Given a trained regression artifact", t, func() {
		event := model.EventRecord{
			Date: "2025-03-03", Time: "09:00", Location: "Main Hall", Status: model.EventUpcoming,
		}

		Convey("When the estimate is fractional", func() {
			count, err := predict.Attendance(constantArtifact(training.ModeRegression, 41.6), feature.Row{Event: event})

			Convey("Then it should round to the nearest integer", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 42)
			})
		})

		Convey("When the estimate is negative", func() {
			count, err := predict.Attendance(constantArtifact(training.ModeRegression, -7.2), feature.Row{Event: event})

			Convey("Then it should clamp to zero", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 0)
			})
		})

		Convey("When no artifact is available", func() {
			_, err := predict.Attendance(nil, feature.Row{Event: event})

			Convey("Then it should report the model as unavailable", func() {
				So(errors.Is(err, predict.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the artifact is a classifier", func() {
			_, err := predict.Attendance(constantArtifact(training.ModeClassification, 1), feature.Row{Event: event})

			Convey("Then the mode mismatch should report unavailable", func() {
				So(errors.Is(err, predict.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestPresenceForEvent(t *testing.T) {
	Convey("Given a trained presence artifact", t, func() {
		event := model.EventRecord{
			ID: "ev-1", Date: "2025-03-03", Time: "09:00", Location: "Main Hall", Status: model.EventUpcoming,
		}
		attendees := []model.AttendeeRecord{
			{ID: "a-1", EventID: "ev-1"},
			{ID: "a-2", EventID: "ev-1"},
			{ID: "a-3", EventID: "ev-1"},
			{ID: "a-4", EventID: "ev-1"},
			{ID: "a-5", EventID: "ev-1"},
		}

		Convey("When predicting with a confidently positive model", func() {
			// sigmoid(4) is comfortably above the cutoff
			out, err := predict.PresenceForEvent(constantArtifact(training.ModeClassification, 4), event, attendees)

			Convey("Then every attendee should get the identical event-level label", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 5)
				for i, p := range out {
					So(p.AttendeeID, ShouldEqual, attendees[i].ID)
					So(p.Present, ShouldBeTrue)
					So(p.Probability, ShouldEqual, out[0].Probability)
				}
			})
		})

		Convey("When predicting with a confidently negative model", func() {
			out, err := predict.PresenceForEvent(constantArtifact(training.ModeClassification, -4), event, attendees)

			Convey("Then every attendee should be predicted absent", func() {
				So(err, ShouldBeNil)
				for _, p := range out {
					So(p.Present, ShouldBeFalse)
					So(p.Probability, ShouldBeLessThan, 0.5)
				}
			})
		})

		Convey("When the event has no attendees", func() {
			out, err := predict.PresenceForEvent(constantArtifact(training.ModeClassification, 4), event, nil)

			Convey("Then it should return empty without error", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When no artifact is available", func() {
			_, err := predict.PresenceForEvent(nil, event, attendees)

			Convey("Then it should report the model as unavailable", func() {
				So(errors.Is(err, predict.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the artifact is a regression model", func() {
			_, err := predict.PresenceForEvent(constantArtifact(training.ModeRegression, 40), event, attendees)

			Convey("Then the mode mismatch should report unavailable", func() {
				So(errors.Is(err, predict.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}
