// Package model contains domain records passed between layers.
package model

// EventStatus is the lifecycle state of an event.
type EventStatus string

// Event lifecycle states.
const (
	EventPendingApproval EventStatus = "Pending Approval"
	EventUpcoming        EventStatus = "Upcoming"
	EventInProgress      EventStatus = "In Progress"
	EventCompleted       EventStatus = "Completed"
	EventCancelled       EventStatus = "Cancelled"
)

// AttendeeStatus is the outcome state of an attendee for one event.
type AttendeeStatus string

// Attendee outcome states.
const (
	AttendeeInvited          AttendeeStatus = "Invited"
	AttendeeRegistered       AttendeeStatus = "Registered"
	AttendeePresent          AttendeeStatus = "Present"
	AttendeeAbsent           AttendeeStatus = "Absent"
	AttendeeCheckedIn        AttendeeStatus = "Checked In"
	AttendeePredictedPresent AttendeeStatus = "Predicted Present"
	AttendeePredictedAbsent  AttendeeStatus = "Predicted Absent"
)

// Authoritative reports whether the status was recorded by a verified
// check-in or a real outcome. Predictions must never overwrite these.
func (s AttendeeStatus) Authoritative() bool {
	return s == AttendeePresent || s == AttendeeCheckedIn
}

// EventRecord represents one event row as read from the record store.
// Date is an ISO-8601 calendar day ("2006-01-02") and Time is "HH:MM";
// both are kept as strings because historical rows may be malformed and
// the encoder degrades them to defaults instead of rejecting the row.
type EventRecord struct {
	ID         string
	Date       string
	Time       string
	Location   string
	Status     EventStatus
	Attendance *int    // nil until the event has occurred
	Type       *string // optional event type
}

// AttendeeRecord represents one attendee row owned by an event.
type AttendeeRecord struct {
	ID                     string
	EventID                string
	Name                   string
	Email                  string
	Role                   *string // free-text category, e.g. "attendee", "speaker"
	Status                 AttendeeStatus
	PreviousAttendanceRate *float64 // rolling historical rate in [0,1]
	Landmarks              LandmarkVector
}
