package attendance

import (
	"time"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// LatestSessionColumn returns the 1-based position of the right-most column
// of unit captured on day's calendar date. Only headers carrying a date take
// part; the comparison uses the header's wall clock and day's own date.
func LatestSessionColumn(headers []string, unit string, day time.Time) (int, bool) {
	want := CanonicalUnit(unit)
	y, m, d := day.Date()
	for i := len(headers) - 1; i >= 0; i-- {
		if !IsAttendanceColumn(headers[i]) {
			continue
		}
		s := ParseHeader(headers[i])
		if s.Unit != want || s.CapturedAt == nil {
			continue
		}
		if cy, cm, cd := s.CapturedAt.Date(); cy == y && cm == m && cd == d {
			return i + 1, true
		}
	}
	return 0, false
}

// Absentees lists the students whose mark in the 1-based column col is
// Absent. Rows are reported as worksheet rows, the first student being row 2.
func Absentees(t *types.Table, col int) []types.Absentee {
	if t == nil || col < 1 {
		return nil
	}
	idCol := t.ColumnIndex(ColumnStudentID)
	nameCol := t.ColumnIndex(ColumnStudentName)

	var out []types.Absentee
	for row := range t.Rows {
		if Normalize(t.Value(row, col-1)) != types.MarkAbsent {
			continue
		}
		out = append(out, types.Absentee{
			Row:         row + 2,
			StudentID:   t.Value(row, idCol),
			StudentName: t.Value(row, nameCol),
		})
	}
	return out
}
