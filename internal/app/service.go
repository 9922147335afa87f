// Package service provides the core application service wiring the
// attendance pipeline components: feature encoding, training,
// prediction, landmark enrollment, and identity verification.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/muster/internal/adapters/artifact"
	"github.com/okian/muster/internal/adapters/repository"
	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/landmark"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/predict"
	"github.com/okian/muster/internal/domain/training"
	"github.com/okian/muster/internal/domain/verify"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Service implements the attendance intelligence pipeline entry
// points. All operations are synchronous, single-record
// request/response; the only shared mutable resource is the artifact
// blob, which the artifact store replaces atomically.
type Service struct {
	records           repository.Store
	attendanceModels  artifact.Store
	presenceModels    artifact.Store
	extractor         *landmark.Extractor
	verifier          *verify.Verifier
	trainer           *training.Trainer
	logger            logger.Logger

	// Two-step check-in protocol state: token -> attendee id. The
	// verifier itself stays stateless and any-to-one.
	mu       sync.Mutex
	sessions map[string]string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecordStore sets the event/attendee record store.
func WithRecordStore(store repository.Store) Option {
	return func(s *Service) {
		s.records = store
	}
}

// WithArtifactStores sets the persisted model stores for the two
// training modes.
func WithArtifactStores(attendance, presence artifact.Store) Option {
	return func(s *Service) {
		s.attendanceModels = attendance
		s.presenceModels = presence
	}
}

// WithDetector sets the external face-mesh detector used for
// enrollment and verification captures.
func WithDetector(d landmark.Detector) Option {
	return func(s *Service) {
		s.extractor = landmark.New(d)
	}
}

// WithVerifyThreshold sets the accept distance bound.
func WithVerifyThreshold(tau float64) Option {
	return func(s *Service) {
		s.verifier = verify.New(verify.WithThreshold(tau))
	}
}

// WithTrainer sets a configured trainer.
func WithTrainer(t *training.Trainer) Option {
	return func(s *Service) {
		if t != nil {
			s.trainer = t
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		verifier: verify.New(),
		trainer:  training.New(),
		sessions: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Close releases the record store handle.
func (s *Service) Close() error {
	if s.records != nil {
		return s.records.Close()
	}
	return nil
}

// RetrainAttendance fits the event-level attendance regression model
// from all historical events and atomically replaces the persisted
// artifact.
func (s *Service) RetrainAttendance(ctx context.Context) (*training.Report, error) {
	rows, err := s.records.EventRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load training rows: %w", err)
	}
	return s.retrain(ctx, rows, s.attendanceModels, s.trainer.TrainRegression)
}

// RetrainPresence fits the presence classification model from all
// attendee rows joined with their events.
func (s *Service) RetrainPresence(ctx context.Context) (*training.Report, error) {
	rows, err := s.records.AttendeeRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load training rows: %w", err)
	}
	return s.retrain(ctx, rows, s.presenceModels, s.trainer.TrainClassifier)
}

func (s *Service) retrain(
	ctx context.Context,
	rows []feature.Row,
	store artifact.Store,
	fit func([]feature.Row) (*training.Artifact, *training.Report, error),
) (*training.Report, error) {
	start := time.Now()
	art, report, err := fit(rows)
	if err != nil {
		if errors.Is(err, training.ErrInsufficientData) {
			s.logger.Warn(ctx, "not enough rows to train", logger.Int("rows", len(rows)))
		}
		return nil, err
	}
	if err := store.Save(ctx, art); err != nil {
		metrics.RecordTrainingFailure(string(art.Mode))
		return nil, fmt.Errorf("persist artifact: %w", err)
	}
	metrics.RecordArtifactWrite()
	metrics.RecordTraining(string(art.Mode), time.Since(start), report.Rows)
	s.logger.Info(ctx, "model retrained",
		logger.String("mode", string(art.Mode)),
		logger.Int("rows", report.Rows),
		logger.Int("columns", art.Schema.Width()),
	)
	return report, nil
}

// PredictEventAttendance predicts the attendance count for one event.
// Reports unavailable when no artifact exists or it cannot be loaded.
func (s *Service) PredictEventAttendance(ctx context.Context, eventID string) (int, error) {
	art, err := s.attendanceModels.Load(ctx)
	if err != nil {
		metrics.RecordArtifactLoadFailure()
		metrics.RecordPredictionUnavailable()
		return 0, err
	}
	event, err := s.records.Event(ctx, eventID)
	if err != nil {
		return 0, err
	}
	count, err := predict.Attendance(art, feature.Row{Event: event})
	if err != nil {
		return 0, err
	}
	metrics.RecordPrediction("attendance")
	return count, nil
}

// PredictPresenceForEvent predicts presence for every attendee of one
// event. The single event-level label is broadcast to the whole
// roster; an event with no attendees yields an empty result.
func (s *Service) PredictPresenceForEvent(ctx context.Context, eventID string) ([]predict.AttendeePresence, error) {
	art, err := s.presenceModels.Load(ctx)
	if err != nil {
		metrics.RecordArtifactLoadFailure()
		metrics.RecordPredictionUnavailable()
		return nil, err
	}
	event, err := s.records.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.records.AttendeesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	predictions, err := predict.PresenceForEvent(art, event, attendees)
	if err != nil {
		return nil, err
	}
	metrics.RecordPrediction("presence")
	return predictions, nil
}

// ApplyPresencePredictions predicts presence for an event's roster and
// writes the predicted statuses back, skipping attendees whose status
// is authoritative (a verified check-in or a recorded outcome is never
// overwritten by a prediction).
func (s *Service) ApplyPresencePredictions(ctx context.Context, eventID string) ([]predict.AttendeePresence, error) {
	predictions, err := s.PredictPresenceForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.records.AttendeesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	statusByID := make(map[string]model.AttendeeStatus, len(attendees))
	for _, a := range attendees {
		statusByID[a.ID] = a.Status
	}

	for _, p := range predictions {
		if statusByID[p.AttendeeID].Authoritative() {
			continue
		}
		status := model.AttendeePredictedAbsent
		if p.Present {
			status = model.AttendeePredictedPresent
		}
		if err := s.records.UpdateAttendeeStatus(ctx, p.AttendeeID, status); err != nil {
			return nil, fmt.Errorf("apply prediction: %w", err)
		}
	}
	return predictions, nil
}

// EnrollFace extracts a landmark vector from a binary image payload
// and stores it as the attendee's reference. Last write wins.
func (s *Service) EnrollFace(ctx context.Context, attendeeID string, image []byte) error {
	vec, err := s.extractor.ExtractImage(ctx, image)
	if err != nil {
		s.recordExtractionFailure(err)
		return err
	}
	return s.saveEnrollment(ctx, attendeeID, vec)
}

// EnrollFaceCapture is EnrollFace for a base64 data-URL capture.
func (s *Service) EnrollFaceCapture(ctx context.Context, attendeeID, capture string) error {
	vec, err := s.extractor.ExtractDataURL(ctx, capture)
	if err != nil {
		s.recordExtractionFailure(err)
		return err
	}
	return s.saveEnrollment(ctx, attendeeID, vec)
}

func (s *Service) saveEnrollment(ctx context.Context, attendeeID string, vec model.LandmarkVector) error {
	metrics.RecordExtraction()
	if err := s.records.SaveLandmarks(ctx, attendeeID, vec); err != nil {
		return fmt.Errorf("store reference: %w", err)
	}
	metrics.RecordEnrollment()
	s.logger.Info(ctx, "face enrolled",
		logger.String("attendee", attendeeID),
		logger.Int("points", len(vec)),
	)
	return nil
}

// BeginCheckIn starts the two-step check-in protocol by selecting the
// identity to verify against. It returns a session token consumed by
// CompleteCheckIn.
func (s *Service) BeginCheckIn(ctx context.Context, attendeeID string) (string, error) {
	if _, err := s.records.Attendee(ctx, attendeeID); err != nil {
		return "", err
	}
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = attendeeID
	s.mu.Unlock()
	return token, nil
}

// CompleteCheckIn submits a biometric capture for a previously
// selected identity. The candidate is compared against that one
// reference only, never searched across enrollments. On accept the
// attendee is marked checked in and the session is consumed; a
// rejected attempt keeps the session alive for a retry.
func (s *Service) CompleteCheckIn(ctx context.Context, token, capture string) (verify.Decision, error) {
	s.mu.Lock()
	attendeeID, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return verify.Decision{}, ErrNoSession
	}

	attendee, err := s.records.Attendee(ctx, attendeeID)
	if err != nil {
		return verify.Decision{}, err
	}

	candidate, err := s.extractor.ExtractDataURL(ctx, capture)
	if err != nil {
		s.recordExtractionFailure(err)
		return verify.Decision{}, err
	}
	metrics.RecordExtraction()

	decision := s.verifier.Verify(candidate, attendee.Landmarks)
	metrics.RecordVerification(decision.Accepted, decision.Distance)
	s.logger.Info(ctx, "verification decision",
		logger.String("attendee", attendeeID),
		logger.String("reason", string(decision.Reason)),
		logger.Float64("distance", decision.Distance),
	)

	if decision.Accepted {
		if err := s.records.UpdateAttendeeStatus(ctx, attendeeID, model.AttendeeCheckedIn); err != nil {
			return decision, fmt.Errorf("mark checked in: %w", err)
		}
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	return decision, nil
}

func (s *Service) recordExtractionFailure(err error) {
	reason := "invalid_image"
	if errors.Is(err, landmark.ErrNoFace) {
		reason = "no_face"
	}
	metrics.RecordExtractionFailure(reason)
}
