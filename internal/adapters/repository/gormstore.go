package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/pkg/metrics"
)

// eventRow is the gorm mapping of one event record.
type eventRow struct {
	ID         string `gorm:"primaryKey"`
	Date       string
	Time       string
	Location   string
	Status     string
	Attendance *int
	Type       *string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (eventRow) TableName() string { return "events" }

// attendeeRow is the gorm mapping of one attendee record. The face
// landmark reference is kept as raw JSON so the stored format stays a
// plain ordered list of [x,y,z] triples.
type attendeeRow struct {
	ID                     string `gorm:"primaryKey"`
	EventID                string `gorm:"index"`
	Name                   string
	Email                  string
	Role                   *string
	Status                 string
	PreviousAttendanceRate *float64
	FaceLandmarks          json.RawMessage `gorm:"type:json"`
	CreatedAt              time.Time       `gorm:"autoCreateTime"`
}

func (attendeeRow) TableName() string { return "attendees" }

// GormStore is a Store backed by sqlite through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (and migrates) the sqlite database at path.
func NewGormStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	if err := db.AutoMigrate(&eventRow{}, &attendeeRow{}); err != nil {
		return nil, fmt.Errorf("migrate record store: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveEvent inserts or replaces an event record.
func (s *GormStore) SaveEvent(ctx context.Context, e model.EventRecord) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	row := eventRow{
		ID:         e.ID,
		Date:       e.Date,
		Time:       e.Time,
		Location:   e.Location,
		Status:     string(e.Status),
		Attendance: e.Attendance,
		Type:       e.Type,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// SaveAttendee inserts or replaces an attendee record.
func (s *GormStore) SaveAttendee(ctx context.Context, a model.AttendeeRecord) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	row := attendeeRow{
		ID:                     a.ID,
		EventID:                a.EventID,
		Name:                   a.Name,
		Email:                  a.Email,
		Role:                   a.Role,
		Status:                 string(a.Status),
		PreviousAttendanceRate: a.PreviousAttendanceRate,
	}
	if len(a.Landmarks) > 0 {
		data, err := json.Marshal(a.Landmarks)
		if err != nil {
			return fmt.Errorf("marshal landmarks: %w", err)
		}
		row.FaceLandmarks = data
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save attendee: %w", err)
	}
	return nil
}

// Event returns one event record.
func (s *GormStore) Event(ctx context.Context, id string) (model.EventRecord, error) {
	var row eventRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.EventRecord{}, ErrNotFound
		}
		return model.EventRecord{}, fmt.Errorf("load event: %w", err)
	}
	return toEventRecord(row), nil
}

// Attendee returns one attendee record.
func (s *GormStore) Attendee(ctx context.Context, id string) (model.AttendeeRecord, error) {
	var row attendeeRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.AttendeeRecord{}, ErrNotFound
		}
		return model.AttendeeRecord{}, fmt.Errorf("load attendee: %w", err)
	}
	return toAttendeeRecord(row)
}

// AttendeesByEvent returns the roster of one event.
func (s *GormStore) AttendeesByEvent(ctx context.Context, eventID string) ([]model.AttendeeRecord, error) {
	var rows []attendeeRow
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	out := make([]model.AttendeeRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := toAttendeeRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// EventRows returns every event as an event-level training row.
func (s *GormStore) EventRows(ctx context.Context) ([]feature.Row, error) {
	start := time.Now()
	var rows []eventRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load event rows: %w", err)
	}
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	out := make([]feature.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, feature.Row{Event: toEventRecord(r)})
	}
	return out, nil
}

// AttendeeRows joins every attendee with its owning event.
func (s *GormStore) AttendeeRows(ctx context.Context) ([]feature.Row, error) {
	start := time.Now()
	var attendees []attendeeRow
	if err := s.db.WithContext(ctx).Find(&attendees).Error; err != nil {
		return nil, fmt.Errorf("load attendee rows: %w", err)
	}
	var events []eventRow
	if err := s.db.WithContext(ctx).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load event rows: %w", err)
	}
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	byID := make(map[string]eventRow, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	out := make([]feature.Row, 0, len(attendees))
	for _, a := range attendees {
		e, ok := byID[a.EventID]
		if !ok {
			continue // orphaned attendee, skip
		}
		rec, err := toAttendeeRecord(a)
		if err != nil {
			return nil, err
		}
		out = append(out, feature.Row{Event: toEventRecord(e), Attendee: &rec})
	}
	return out, nil
}

// UpdateAttendeeStatus sets the outcome status of one attendee.
func (s *GormStore) UpdateAttendeeStatus(ctx context.Context, id string, status model.AttendeeStatus) error {
	res := s.db.WithContext(ctx).Model(&attendeeRow{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update attendee status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveLandmarks overwrites the enrollment reference of one attendee.
func (s *GormStore) SaveLandmarks(ctx context.Context, attendeeID string, v model.LandmarkVector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal landmarks: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&attendeeRow{}).Where("id = ?", attendeeID).Update("face_landmarks", json.RawMessage(data))
	if res.Error != nil {
		return fmt.Errorf("save landmarks: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying sql handle.
func (s *GormStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	return db.Close()
}

func toEventRecord(r eventRow) model.EventRecord {
	return model.EventRecord{
		ID:         r.ID,
		Date:       r.Date,
		Time:       r.Time,
		Location:   r.Location,
		Status:     model.EventStatus(r.Status),
		Attendance: r.Attendance,
		Type:       r.Type,
	}
}

func toAttendeeRecord(r attendeeRow) (model.AttendeeRecord, error) {
	rec := model.AttendeeRecord{
		ID:                     r.ID,
		EventID:                r.EventID,
		Name:                   r.Name,
		Email:                  r.Email,
		Role:                   r.Role,
		Status:                 model.AttendeeStatus(r.Status),
		PreviousAttendanceRate: r.PreviousAttendanceRate,
	}
	if len(r.FaceLandmarks) > 0 {
		v, err := model.ParseLandmarks(r.FaceLandmarks)
		if err != nil {
			return model.AttendeeRecord{}, fmt.Errorf("parse stored landmarks: %w", err)
		}
		rec.Landmarks = v
	}
	return rec, nil
}
