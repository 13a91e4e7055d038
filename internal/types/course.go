package types

import (
	"strings"
	"time"
)

// Table is one worksheet read as text. Headers is worksheet row 1 and Rows
// holds the data rows starting at worksheet row 2. Rows may be ragged; a
// missing trailing cell reads as "".
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Cell addresses a worksheet cell with 1-based coordinates.
type Cell struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// Value returns the cell at 0-based data row and column, or "" when absent.
func (t *Table) Value(row, col int) string {
	if t == nil || row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the 0-based position of the first header matching name
// after trimming and case folding, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	want := strings.TrimSpace(name)
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Clone returns a deep copy so cached tables are never shared with callers.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Course summarizes one worksheet.
//
// A course is identified by its worksheet title, which by convention is
// "<group> - <subject>" (e.g. "611 - Estática").
type Course struct {
	ID       string              `json:"id"`
	Students int                 `json:"students"`
	Units    []string            `json:"units"`
	Sessions []SessionDescriptor `json:"sessions"`
}

// Comparison is the cross-course report.
type Comparison struct {
	Courses []string        `json:"courses"`
	Units   []string        `json:"units"`  // every unit present, before filtering
	Filter  []string        `json:"filter"` // empty means all units
	Summary []RateAggregate `json:"summary"`
	Trend   []TrendPoint    `json:"trend"`
}

// CourseReport is the single-course breakdown.
type CourseReport struct {
	CourseID string        `json:"course_id"`
	Overall  RateAggregate `json:"overall"`
	Units    []UnitRate    `json:"units"`
	Students []StudentRate `json:"students"`
}

// StudentReport is one student's per-unit history within a course.
type StudentReport struct {
	CourseID    string     `json:"course_id"`
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	Units       []UnitRate `json:"units"`
}

// CaptureResult describes a persisted capture session.
type CaptureResult struct {
	ID         string    `json:"id" firestore:"id"`
	CourseID   string    `json:"course_id" firestore:"course_id"`
	Header     string    `json:"header" firestore:"header"`
	Column     int       `json:"column" firestore:"column"`
	Created    bool      `json:"created" firestore:"created"`
	Present    int       `json:"present" firestore:"present"`
	Tardy      int       `json:"tardy" firestore:"tardy"`
	Absent     int       `json:"absent" firestore:"absent"`
	CapturedAt time.Time `json:"captured_at" firestore:"captured_at"`
}

// Absentee is a student marked absent in a session column.
type Absentee struct {
	Row         int    `json:"row"` // worksheet row
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
}

// TardySession is the session column eligible for same-day tardy correction.
type TardySession struct {
	CourseID  string     `json:"course_id"`
	Header    string     `json:"header"`
	Column    int        `json:"column"`
	Absentees []Absentee `json:"absentees"`
}
