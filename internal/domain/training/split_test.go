package training

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplit(t *testing.T) {
	Convey("Given a row count and a test ratio", t, func() {
		Convey("When splitting twice with the same seed", func() {
			trainA, testA := split(20, 0.25, 42)
			trainB, testB := split(20, 0.25, 42)

			Convey("Then both partitions should be identical", func() {
				So(trainA, ShouldResemble, trainB)
				So(testA, ShouldResemble, testB)
			})

			Convey("Then the partition should cover every row exactly once", func() {
				seen := make(map[int]int, 20)
				for _, i := range trainA {
					seen[i]++
				}
				for _, i := range testA {
					seen[i]++
				}
				So(len(seen), ShouldEqual, 20)
				for _, count := range seen {
					So(count, ShouldEqual, 1)
				}
			})

			Convey("Then the test fraction should match the ratio", func() {
				So(len(testA), ShouldEqual, 5)
				So(len(trainA), ShouldEqual, 15)
			})
		})

		Convey("When splitting with a different seed", func() {
			_, testA := split(40, 0.25, 1)
			_, testB := split(40, 0.25, 2)

			Convey("Then the held-out sets should differ", func() {
				So(testA, ShouldNotResemble, testB)
			})
		})

		Convey("When the row count is tiny", func() {
			train, test := split(2, 0.25, 42)

			Convey("Then both sides should keep at least one row", func() {
				So(len(train), ShouldEqual, 1)
				So(len(test), ShouldEqual, 1)
			})
		})

		Convey("When the ratio would swallow every row", func() {
			train, test := split(4, 0.99, 42)

			Convey("Then the train side should keep at least one row", func() {
				So(len(train), ShouldBeGreaterThanOrEqualTo, 1)
				So(len(test), ShouldBeLessThan, 4)
			})
		})
	})
}
