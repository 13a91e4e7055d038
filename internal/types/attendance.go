package types

import "time"

// Mark is the captured attendance state of one student in one session.
type Mark int

const (
	MarkUnknown Mark = iota
	MarkPresent
	MarkTardy
	MarkAbsent
)

func (m Mark) String() string {
	switch m {
	case MarkPresent:
		return "present"
	case MarkTardy:
		return "tardy"
	case MarkAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// MarshalText keeps marks readable in JSON payloads.
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// SessionDescriptor identifies one capture event decoded from a column header.
//
// Unit is always populated: "Unit N", "Preparatory", "Tutoring" or the
// header prefix as written. CapturedAt is nil when the header carries no
// parseable date; HasTime reports whether the header included a time of day.
// Timestamps are wall-clock values of the capture location stored as UTC.
type SessionDescriptor struct {
	Header     string     `json:"header"`
	Unit       string     `json:"unit"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	HasTime    bool       `json:"has_time"`
}

// Record is the long-form unit of attendance: one student in one session.
type Record struct {
	CourseID    string            `json:"course_id"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Session     SessionDescriptor `json:"session"`
	Mark        Mark              `json:"mark"`
}

// Rates holds mark counts and the mean of each binary indicator over them.
// Unknown marks count toward Records but toward none of the three rates, so
// PresentRate+TardyRate+AbsentRate is below 1 whenever Unknown > 0.
type Rates struct {
	Records     int     `json:"records"`
	Present     int     `json:"present"`
	Tardy       int     `json:"tardy"`
	Absent      int     `json:"absent"`
	Unknown     int     `json:"unknown"`
	PresentRate float64 `json:"present_rate"`
	TardyRate   float64 `json:"tardy_rate"`
	AbsentRate  float64 `json:"absent_rate"`
}

// RateAggregate is the per-course attendance summary. It is derived on every
// request and never persisted.
type RateAggregate struct {
	CourseID string `json:"course_id"`
	Rates
	Band string `json:"band,omitempty"`
}

// TrendPoint is a course's rates for the sessions captured at one timestamp.
type TrendPoint struct {
	CourseID   string    `json:"course_id"`
	CapturedAt time.Time `json:"captured_at"`
	Rates
}

// UnitRate is the attendance of a course within one unit.
type UnitRate struct {
	Unit string `json:"unit"`
	Rates
	Band string `json:"band,omitempty"`
}

// StudentRate is one student's attendance over the records considered.
type StudentRate struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Rates
	Band string `json:"band,omitempty"`
}
