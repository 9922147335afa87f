// Package repository provides the relational event/attendee record
// store read by the pipeline and written by enrollment and check-in.
package repository

import (
	"context"

	"github.com/okian/muster/internal/domain/feature"
	"github.com/okian/muster/internal/domain/model"
)

// Store provides read/write access to event and attendee records.
type Store interface {
	// SaveEvent inserts or replaces an event record.
	SaveEvent(ctx context.Context, e model.EventRecord) error

	// SaveAttendee inserts or replaces an attendee record.
	SaveAttendee(ctx context.Context, a model.AttendeeRecord) error

	// Event returns one event. Returns ErrNotFound if unknown.
	Event(ctx context.Context, id string) (model.EventRecord, error)

	// Attendee returns one attendee. Returns ErrNotFound if unknown.
	Attendee(ctx context.Context, id string) (model.AttendeeRecord, error)

	// AttendeesByEvent returns the roster of one event.
	AttendeesByEvent(ctx context.Context, eventID string) ([]model.AttendeeRecord, error)

	// EventRows returns event-level training rows (attendance regression).
	EventRows(ctx context.Context) ([]feature.Row, error)

	// AttendeeRows returns attendee-joined training rows (presence
	// classification), one per attendee with its owning event.
	AttendeeRows(ctx context.Context) ([]feature.Row, error)

	// UpdateAttendeeStatus sets the outcome status of one attendee.
	UpdateAttendeeStatus(ctx context.Context, id string, status model.AttendeeStatus) error

	// SaveLandmarks stores the enrollment reference vector for one
	// attendee. Last write wins; vectors are never merged.
	SaveLandmarks(ctx context.Context, attendeeID string, v model.LandmarkVector) error

	// Close releases the underlying database handle.
	Close() error
}
