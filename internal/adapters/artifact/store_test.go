package artifact_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/muster/internal/adapters/artifact"
	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleArtifact() *training.Artifact {
	a, b := 40, 20
	schema, _, _, err := feature.Fit([]feature.Row{
		{Event: model.EventRecord{Date: "2025-01-06", Time: "09:00", Location: "Main Hall", Status: model.EventCompleted, Attendance: &a}},
		{Event: model.EventRecord{Date: "2025-01-07", Time: "10:00", Location: "Rooftop", Status: model.EventCompleted, Attendance: &b}},
	})
	if err != nil {
		panic(err)
	}
	return &training.Artifact{
		Version:   training.ArtifactVersion,
		Mode:      training.ModeRegression,
		Weights:   make([]float64, schema.Width()),
		Intercept: 33.5,
		Schema:    schema,
		TrainedAt: time.Now().UTC(),
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in a fresh directory", t, func() {
		path := filepath.Join(t.TempDir(), "models", "attendance.json")
		store := artifact.NewFileStore(path)

		Convey("When no artifact has ever been saved", func() {
			_, err := store.Load(ctx)

			Convey("Then it should report unavailable", func() {
				So(errors.Is(err, artifact.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When saving and loading an artifact", func() {
			want := sampleArtifact()
			So(store.Save(ctx, want), ShouldBeNil)

			got, err := store.Load(ctx)

			Convey("Then the roundtrip should preserve the model", func() {
				So(err, ShouldBeNil)
				So(got.Mode, ShouldEqual, want.Mode)
				So(got.Weights, ShouldResemble, want.Weights)
				So(got.Intercept, ShouldEqual, want.Intercept)
				So(got.Schema, ShouldResemble, want.Schema)
			})

			Convey("Then no temp file should be left behind", func() {
				So(err, ShouldBeNil)
				entries, readErr := os.ReadDir(filepath.Dir(path))
				So(readErr, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When a second save replaces the first", func() {
			first := sampleArtifact()
			So(store.Save(ctx, first), ShouldBeNil)

			second := sampleArtifact()
			second.Intercept = 99
			So(store.Save(ctx, second), ShouldBeNil)

			got, err := store.Load(ctx)

			Convey("Then the load should observe the latest artifact in full", func() {
				So(err, ShouldBeNil)
				So(got.Intercept, ShouldEqual, 99)
			})
		})

		Convey("When the blob on disk is corrupt", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o755), ShouldBeNil)
			So(os.WriteFile(path, []byte("{half a json"), 0o644), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then it should report unavailable", func() {
				So(errors.Is(err, artifact.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the persisted version is unsupported", func() {
			stale := sampleArtifact()
			stale.Version = training.ArtifactVersion + 1
			So(store.Save(ctx, stale), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then it should report unavailable", func() {
				So(errors.Is(err, artifact.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the blob lacks an encoding schema", func() {
			headless := sampleArtifact()
			headless.Schema = nil
			So(store.Save(ctx, headless), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then it should report unavailable", func() {
				So(errors.Is(err, artifact.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}
