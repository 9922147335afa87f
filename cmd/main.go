package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/muster/internal/adapters/artifact"
	"github.com/okian/muster/internal/adapters/facemesh"
	"github.com/okian/muster/internal/adapters/repository"
	app "github.com/okian/muster/internal/app"
	"github.com/okian/muster/internal/config"
	"github.com/okian/muster/internal/domain/training"
	"github.com/okian/muster/internal/synth"
	"github.com/okian/muster/pkg/logger"
)

func main() {
	var (
		command    = flag.String("cmd", "train", "seed | train | predict | presence | enroll | checkin")
		mode       = flag.String("mode", "regression", "training mode: regression | classification")
		eventID    = flag.String("event", "", "event id for predict/presence")
		attendeeID = flag.String("attendee", "", "attendee id for enroll/checkin")
		imagePath  = flag.String("image", "", "image file for enrollment")
		numEvents  = flag.Int("events", 40, "events to generate when seeding")
		seed       = flag.Int64("seed", 1, "seed for synthetic data")
	)
	flag.Parse()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	records, err := repository.NewGormStore(cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to open record store", logger.Error(err))
		return
	}

	trainer := training.New(
		training.WithTestRatio(cfg.TestRatio),
		training.WithSeed(cfg.TrainSeed),
		training.WithMinRows(cfg.MinTrainingRows),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithRecordStore(records),
		app.WithArtifactStores(
			artifact.NewFileStore(cfg.ArtifactPath),
			artifact.NewFileStore(cfg.PresenceArtifactPath),
		),
		app.WithDetector(facemesh.New(facemesh.WithBaseURL(cfg.DetectorURL))),
		app.WithVerifyThreshold(cfg.VerifyThreshold),
		app.WithTrainer(trainer),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(ctx, "failed to close record store", logger.Error(err))
		}
	}()

	if err := run(ctx, svc, records, runArgs{
		command:    *command,
		mode:       *mode,
		eventID:    *eventID,
		attendeeID: *attendeeID,
		imagePath:  *imagePath,
		numEvents:  *numEvents,
		seed:       *seed,
	}); err != nil {
		log.Error(ctx, "command failed", logger.String("cmd", *command), logger.Error(err))
		os.Exit(1)
	}
}

type runArgs struct {
	command    string
	mode       string
	eventID    string
	attendeeID string
	imagePath  string
	numEvents  int
	seed       int64
}

func run(ctx context.Context, svc *app.Service, records repository.Store, args runArgs) error {
	switch args.command {
	case "seed":
		gen := synth.New(synth.WithNumEvents(args.numEvents), synth.WithSeed(args.seed))
		events, attendees := gen.Generate()
		for _, e := range events {
			if err := records.SaveEvent(ctx, e); err != nil {
				return err
			}
		}
		for _, a := range attendees {
			if err := records.SaveAttendee(ctx, a); err != nil {
				return err
			}
		}
		fmt.Printf("seeded %d events, %d attendees\n", len(events), len(attendees))
		return nil

	case "train":
		var (
			report *training.Report
			err    error
		)
		if args.mode == string(training.ModeClassification) {
			report, err = svc.RetrainPresence(ctx)
		} else {
			report, err = svc.RetrainAttendance(ctx)
		}
		if err != nil {
			return err
		}
		return emit(report)

	case "predict":
		count, err := svc.PredictEventAttendance(ctx, args.eventID)
		if err != nil {
			return err
		}
		fmt.Printf("predicted attendance: %d\n", count)
		return nil

	case "presence":
		predictions, err := svc.ApplyPresencePredictions(ctx, args.eventID)
		if err != nil {
			return err
		}
		return emit(predictions)

	case "enroll":
		data, err := os.ReadFile(args.imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		return svc.EnrollFace(ctx, args.attendeeID, data)

	case "checkin":
		token, err := svc.BeginCheckIn(ctx, args.attendeeID)
		if err != nil {
			return err
		}
		capture, err := os.ReadFile(args.imagePath)
		if err != nil {
			return fmt.Errorf("read capture: %w", err)
		}
		decision, err := svc.CompleteCheckIn(ctx, token, string(capture))
		if err != nil {
			return err
		}
		return emit(decision)

	default:
		return fmt.Errorf("unknown command %q", args.command)
	}
}

// emit prints a result as indented JSON on stdout.
func emit(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
