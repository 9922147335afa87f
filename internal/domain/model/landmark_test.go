package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/muster/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLandmarkSerialization(t *testing.T) {
	Convey("Given a landmark vector", t, func() {
		v := model.LandmarkVector{
			{X: 0.1, Y: 0.2, Z: 0.3},
			{X: 0.4, Y: 0.5, Z: 0.6},
		}

		Convey("When marshalling", func() {
			data, err := json.Marshal(v)

			Convey("Then points should serialize as bare triples", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "[[0.1,0.2,0.3],[0.4,0.5,0.6]]")
			})

			Convey("Then parsing should roundtrip", func() {
				So(err, ShouldBeNil)
				got, parseErr := model.ParseLandmarks(data)
				So(parseErr, ShouldBeNil)
				So(got, ShouldResemble, v)
			})
		})

		Convey("When parsing a malformed reference", func() {
			_, err := model.ParseLandmarks([]byte(`[[0.1,"y",0.3]]`))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestAttendeeStatusAuthoritative(t *testing.T) {
	Convey("Given the attendee status taxonomy", t, func() {
		Convey("Then recorded outcomes should be authoritative", func() {
			So(model.AttendeePresent.Authoritative(), ShouldBeTrue)
			So(model.AttendeeCheckedIn.Authoritative(), ShouldBeTrue)
		})

		Convey("Then predictions and intents should not be", func() {
			So(model.AttendeeInvited.Authoritative(), ShouldBeFalse)
			So(model.AttendeeRegistered.Authoritative(), ShouldBeFalse)
			So(model.AttendeeAbsent.Authoritative(), ShouldBeFalse)
			So(model.AttendeePredictedPresent.Authoritative(), ShouldBeFalse)
			So(model.AttendeePredictedAbsent.Authoritative(), ShouldBeFalse)
		})
	})
}
