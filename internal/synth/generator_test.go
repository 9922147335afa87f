package synth_test

import (
	"testing"

	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/synth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator with explicit sizing", t, func() {
		gen := synth.New(synth.WithNumEvents(10), synth.WithAttendeesPerEvent(4), synth.WithSeed(7))

		Convey("When generating", func() {
			events, attendees := gen.Generate()

			Convey("Then the record counts should match the configuration", func() {
				So(len(events), ShouldEqual, 10)
				So(len(attendees), ShouldEqual, 40)
			})

			Convey("Then every event should be a complete training row", func() {
				for _, e := range events {
					So(e.ID, ShouldNotBeEmpty)
					So(e.Date, ShouldNotBeEmpty)
					So(e.Location, ShouldNotBeEmpty)
					So(e.Status, ShouldEqual, model.EventCompleted)
					So(e.Attendance, ShouldNotBeNil)
					So(*e.Attendance, ShouldBeGreaterThan, 0)
				}
			})

			Convey("Then every attendee should reference a generated event", func() {
				eventIDs := make(map[string]struct{}, len(events))
				for _, e := range events {
					eventIDs[e.ID] = struct{}{}
				}
				for _, a := range attendees {
					_, ok := eventIDs[a.EventID]
					So(ok, ShouldBeTrue)
					So(a.PreviousAttendanceRate, ShouldNotBeNil)
					So(a.Status, ShouldBeIn, model.AttendeePresent, model.AttendeeAbsent)
				}
			})
		})

		Convey("When generating twice with the same seed", func() {
			eventsA, attendeesA := gen.Generate()
			eventsB, attendeesB := gen.Generate()

			Convey("Then everything but the UUIDs should be identical", func() {
				So(len(eventsA), ShouldEqual, len(eventsB))
				for i := range eventsA {
					So(eventsA[i].Date, ShouldEqual, eventsB[i].Date)
					So(eventsA[i].Time, ShouldEqual, eventsB[i].Time)
					So(eventsA[i].Location, ShouldEqual, eventsB[i].Location)
					So(*eventsA[i].Attendance, ShouldEqual, *eventsB[i].Attendance)
				}
				for i := range attendeesA {
					So(attendeesA[i].Status, ShouldEqual, attendeesB[i].Status)
					So(*attendeesA[i].PreviousAttendanceRate, ShouldEqual, *attendeesB[i].PreviousAttendanceRate)
				}
			})
		})

		Convey("When generating with a different seed", func() {
			_, attendeesA := gen.Generate()
			_, attendeesB := synth.New(synth.WithNumEvents(10), synth.WithAttendeesPerEvent(4), synth.WithSeed(8)).Generate()

			Convey("Then the presence outcomes should differ somewhere", func() {
				differs := false
				for i := range attendeesA {
					if attendeesA[i].Status != attendeesB[i].Status ||
						*attendeesA[i].PreviousAttendanceRate != *attendeesB[i].PreviousAttendanceRate {
						differs = true
						break
					}
				}
				So(differs, ShouldBeTrue)
			})
		})
	})

	Convey("Given default configuration", t, func() {
		Convey("When generating", func() {
			events, attendees := synth.New().Generate()

			Convey("Then the defaults should apply", func() {
				So(len(events), ShouldEqual, 40)
				So(len(attendees), ShouldEqual, 320)
			})
		})
	})
}
