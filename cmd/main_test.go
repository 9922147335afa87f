package main

import (
	"context"
	"os"
	"testing"

	app "github.com/okian/muster/internal/app"
	"github.com/okian/muster/internal/config"
	"github.com/okian/muster/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("MUSTER_DATABASE_PATH", "/tmp/muster-test.db")
			_ = os.Setenv("MUSTER_MIN_TRAINING_ROWS", "5")
			defer func() {
				_ = os.Unsetenv("MUSTER_DATABASE_PATH")
				_ = os.Unsetenv("MUSTER_MIN_TRAINING_ROWS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "/tmp/muster-test.db")
				convey.So(cfg.MinTrainingRows, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing unknown commands", func() {
			err := run(context.Background(), app.New(), nil, runArgs{command: "bogus"})

			convey.Convey("Then run should reject them", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
