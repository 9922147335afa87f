package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/muster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "events.db")
				convey.So(cfg.ArtifactPath, convey.ShouldEqual, "attendance_model.json")
				convey.So(cfg.VerifyThreshold, convey.ShouldEqual, 0.03)
				convey.So(cfg.MinTrainingRows, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MUSTER_DATABASE_PATH", "/tmp/records.db")
			_ = os.Setenv("MUSTER_ARTIFACT_PATH", "/tmp/model.json")
			_ = os.Setenv("MUSTER_VERIFY_THRESHOLD", "0.05")
			_ = os.Setenv("MUSTER_TEST_RATIO", "0.2")
			_ = os.Setenv("MUSTER_TRAIN_SEED", "7")
			_ = os.Setenv("MUSTER_MIN_TRAINING_ROWS", "25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "/tmp/records.db")
				convey.So(cfg.ArtifactPath, convey.ShouldEqual, "/tmp/model.json")
				convey.So(cfg.VerifyThreshold, convey.ShouldEqual, 0.05)
				convey.So(cfg.TestRatio, convey.ShouldEqual, 0.2)
				convey.So(cfg.TrainSeed, convey.ShouldEqual, 7)
				convey.So(cfg.MinTrainingRows, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "database_path: /data/records.db\nverify_threshold: 0.04\ntrain_seed: 99\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("MUSTER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "/data/records.db")
				convey.So(cfg.VerifyThreshold, convey.ShouldEqual, 0.04)
				convey.So(cfg.TrainSeed, convey.ShouldEqual, 99)
				// untouched fields keep their defaults
				convey.So(cfg.ArtifactPath, convey.ShouldEqual, "attendance_model.json")
			})
		})

		convey.Convey("When validation fails", func() {
			_ = os.Setenv("MUSTER_VERIFY_THRESHOLD", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should report the invalid field", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MUSTER_CONFIG",
		"MUSTER_LOG_LEVEL",
		"MUSTER_DATABASE_PATH",
		"MUSTER_ARTIFACT_PATH",
		"MUSTER_VERIFY_THRESHOLD",
		"MUSTER_TEST_RATIO",
		"MUSTER_TRAIN_SEED",
		"MUSTER_MIN_TRAINING_ROWS",
	} {
		_ = os.Unsetenv(key)
	}
}
