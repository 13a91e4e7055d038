package attendance

import "github.com/BladMendez/asistencia-mec-nica/internal/types"

// Identity columns of every course worksheet.
const (
	ColumnStudentID   = "No de control"
	ColumnStudentName = "Nombre"
)

// identityColumns locates the student id and name columns, or reports false
// when either is missing.
func identityColumns(t *types.Table) (idCol, nameCol int, ok bool) {
	idCol = t.ColumnIndex(ColumnStudentID)
	nameCol = t.ColumnIndex(ColumnStudentName)
	return idCol, nameCol, idCol >= 0 && nameCol >= 0
}

// AttendanceColumns returns the 0-based indexes of the attendance columns of
// headers, in header order.
func AttendanceColumns(headers []string) []int {
	var cols []int
	for i, h := range headers {
		if IsAttendanceColumn(h) {
			cols = append(cols, i)
		}
	}
	return cols
}

// Melt reshapes one course table into long-form records: one per student row
// and attendance column, column by column in header order. A table without
// the identity columns yields no records.
func Melt(t *types.Table, courseID string) []types.Record {
	if t == nil {
		return nil
	}
	idCol, nameCol, ok := identityColumns(t)
	if !ok {
		return nil
	}

	cols := AttendanceColumns(t.Headers)
	if len(cols) == 0 || len(t.Rows) == 0 {
		return nil
	}

	records := make([]types.Record, 0, len(cols)*len(t.Rows))
	for _, col := range cols {
		session := ParseHeader(t.Headers[col])
		for row := range t.Rows {
			records = append(records, types.Record{
				CourseID:    courseID,
				StudentID:   t.Value(row, idCol),
				StudentName: t.Value(row, nameCol),
				Session:     session,
				Mark:        Normalize(t.Value(row, col)),
			})
		}
	}
	return records
}
