// Package feature derives fixed-width numeric vectors from raw event
// and attendee records. The column layout is frozen in a Schema at
// train time so inference encodes against the exact same columns; see
// Schema.Encode for the degradation rules on malformed input.
package feature

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/muster/internal/domain/model"
)

const dateLayout = "2006-01-02"

// minUsableRows is the smallest row count that can freeze a schema.
const minUsableRows = 2

// Row pairs an event with an optional attendee. Event-level rows
// (attendance regression) leave Attendee nil; presence classification
// rows carry the attendee whose outcome is the label.
type Row struct {
	Event    model.EventRecord
	Attendee *model.AttendeeRecord
}

// level returns the raw category value for a block feature. Optional
// fields map to the empty string, which is a level like any other.
func (r Row) level(feature string) string {
	switch feature {
	case BlockLocation:
		return r.Event.Location
	case BlockEventStatus:
		return string(r.Event.Status)
	case BlockEventType:
		if r.Event.Type != nil {
			return *r.Event.Type
		}
	case BlockAttendeeRole:
		if r.Attendee != nil && r.Attendee.Role != nil {
			return *r.Attendee.Role
		}
	}
	return ""
}

// usable reports whether the row may participate in training. Rows
// missing a required field are excluded from training only; inference
// encodes every row by substituting defaults.
func (r Row) usable() bool {
	return r.Event.Attendance != nil &&
		r.Event.Date != "" &&
		r.Event.Location != "" &&
		r.Event.Status != ""
}

// Fit builds the encoding schema from training rows and encodes the
// usable rows into a design matrix. The returned rows are the ones
// actually encoded, in matrix order, so callers can align labels.
// Fewer than two usable rows yields ErrInsufficientData.
func Fit(rows []Row) (*Schema, *mat.Dense, []Row, error) {
	usable := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.usable() {
			usable = append(usable, r)
		}
	}
	if len(usable) < minUsableRows {
		return nil, nil, nil, ErrInsufficientData
	}

	schema := &Schema{
		Version: SchemaVersion,
		Blocks: []Block{
			{Feature: BlockLocation, Levels: levels(usable, BlockLocation)},
			{Feature: BlockEventStatus, Levels: levels(usable, BlockEventStatus)},
			{Feature: BlockEventType, Levels: levels(usable, BlockEventType)},
			{Feature: BlockAttendeeRole, Levels: levels(usable, BlockAttendeeRole)},
		},
	}

	x := mat.NewDense(len(usable), schema.Width(), nil)
	for i, r := range usable {
		x.SetRow(i, schema.Encode(r))
	}
	return schema, x, usable, nil
}

// levels collects the distinct category values of one block feature,
// sorted so the frozen column order is deterministic.
func levels(rows []Row, feature string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.level(feature)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// dayOfWeek parses an ISO date and returns 0=Monday..6=Sunday.
// Unparseable dates degrade to 0.
func dayOfWeek(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	return (int(t.Weekday()) + 6) % 7
}

func isWeekend(dow int) bool {
	return dow >= 5
}

// hourOfDay takes the integer part of "HH:MM" before the colon.
// Unparseable times degrade to 0.
func hourOfDay(t string) int {
	head, _, _ := strings.Cut(t, ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 {
		return 0
	}
	return h
}
