package feature

// SchemaVersion identifies the current encoding layout. Bump when the
// numeric column set or block ordering changes so stale artifacts are
// rejected instead of silently misread.
const SchemaVersion = 1

// Block feature names, in frozen column order after the numeric columns.
const (
	BlockLocation     = "location"
	BlockEventStatus  = "event_status"
	BlockEventType    = "event_type"
	BlockAttendeeRole = "attendee_role"
)

// NumericColumns lists the leading numeric columns of every vector.
var NumericColumns = []string{
	"day_of_week",
	"hour",
	"is_weekend",
	"event_attendance",
	"previous_attendance_rate",
}

// Block is one frozen one-hot block: the category levels seen at train
// time, in column order. A level absent from Levels encodes as all
// zeros for the block.
type Block struct {
	Feature string   `json:"feature"`
	Levels  []string `json:"levels"`
}

// offset returns the column offset of level within the block, or false
// if the level was not seen at train time.
func (b Block) offset(level string) (int, bool) {
	for i, l := range b.Levels {
		if l == level {
			return i, true
		}
	}
	return 0, false
}

// Schema is the encoding layout learned at train time. It is computed
// once by Fit, persisted inside the model artifact, and never mutated
// or recomputed at inference time.
type Schema struct {
	Version int     `json:"version"`
	Blocks  []Block `json:"blocks"`
}

// Width returns the total vector width defined by the schema.
func (s *Schema) Width() int {
	w := len(NumericColumns)
	for _, b := range s.Blocks {
		w += len(b.Levels)
	}
	return w
}

// Columns returns the ordered column names, one per vector position.
// One-hot columns are named feature=level.
func (s *Schema) Columns() []string {
	cols := make([]string, 0, s.Width())
	cols = append(cols, NumericColumns...)
	for _, b := range s.Blocks {
		for _, l := range b.Levels {
			cols = append(cols, b.Feature+"="+l)
		}
	}
	return cols
}

// Encode turns one row into a vector laid out by the schema. It never
// fails: malformed dates and times fall back to zero, missing numeric
// fields to zero, and unseen category levels to an all-zero block.
func (s *Schema) Encode(row Row) []float64 {
	vec := make([]float64, s.Width())
	vec[0] = float64(dayOfWeek(row.Event.Date))
	vec[1] = float64(hourOfDay(row.Event.Time))
	if isWeekend(dayOfWeek(row.Event.Date)) {
		vec[2] = 1
	}
	if row.Event.Attendance != nil {
		vec[3] = float64(*row.Event.Attendance)
	}
	if row.Attendee != nil && row.Attendee.PreviousAttendanceRate != nil {
		vec[4] = *row.Attendee.PreviousAttendanceRate
	}

	off := len(NumericColumns)
	for _, b := range s.Blocks {
		if i, ok := b.offset(row.level(b.Feature)); ok {
			vec[off+i] = 1
		}
		off += len(b.Levels)
	}
	return vec
}
