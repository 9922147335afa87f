package config_test

import (
	"testing"

	"github.com/okian/muster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "events.db")
			convey.So(cfg.ArtifactPath, convey.ShouldEqual, "attendance_model.json")
			convey.So(cfg.VerifyThreshold, convey.ShouldEqual, 0.03)
			convey.So(cfg.TestRatio, convey.ShouldEqual, 0.25)
			convey.So(cfg.TrainSeed, convey.ShouldEqual, 42)
			convey.So(cfg.MinTrainingRows, convey.ShouldEqual, 10)
		})
	})
}
