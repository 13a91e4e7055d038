package tracker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/metrics"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// CaptureRequest is one submission of the attendance form. Students are
// identified by control number. Students in neither list are absent; a
// student in both is tardy.
type CaptureRequest struct {
	Course  string
	Unit    string
	Present []string
	Tardy   []string
}

// courseRoster is the identity view of a course worksheet.
type courseRoster struct {
	table   *types.Table
	idCol   int
	nameCol int
}

func (s *Service) loadRoster(ctx context.Context, course string) (*courseRoster, error) {
	t, err := readTable(ctx, s.store, course)
	if err != nil {
		return nil, err
	}
	if t.Empty() {
		return nil, errors.Wrapf(ErrNoStudents, "%q", course)
	}
	r := &courseRoster{
		table:   t,
		idCol:   t.ColumnIndex(attendance.ColumnStudentID),
		nameCol: t.ColumnIndex(attendance.ColumnStudentName),
	}
	if r.idCol < 0 || r.nameCol < 0 {
		return nil, errors.Wrapf(ErrMissingIdentity, "%q", course)
	}
	return r, nil
}

func (r *courseRoster) studentID(row int) string {
	return strings.TrimSpace(r.table.Value(row, r.idCol))
}

// index maps control numbers to data rows. Students without a control
// number cannot be referenced.
func (r *courseRoster) index() map[string]int {
	idx := make(map[string]int, len(r.table.Rows))
	for row := range r.table.Rows {
		if id := r.studentID(row); id != "" {
			if _, dup := idx[id]; !dup {
				idx[id] = row
			}
		}
	}
	return idx
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

// Capture records one session for a course: it resolves or creates the
// session column, then writes a mark for every student. The header write
// completes before any mark is written; if it fails nothing else is written.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (*types.CaptureResult, error) {
	now := s.today()
	if s.weekdaysOnly {
		if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return nil, ErrNotSchoolDay
		}
	}

	header, err := attendance.FormatHeader(req.Unit, now)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidUnit, err.Error())
	}

	r, err := s.loadRoster(ctx, req.Course)
	if err != nil {
		return nil, err
	}

	present, tardy := idSet(req.Present), idSet(req.Tardy)
	known := r.index()
	for _, set := range []map[string]struct{}{present, tardy} {
		for id := range set {
			if _, ok := known[id]; !ok {
				return nil, errors.Wrapf(ErrUnknownStudent, "%q in %q", id, req.Course)
			}
		}
	}

	col, created := attendance.ResolveColumn(r.table.Headers, header)
	log := s.log.With("course", req.Course, "header", header, "column", col)
	if created {
		if err := s.store.WriteHeaderCell(ctx, req.Course, col, header); err != nil {
			log.Error("capture header write failed", "error", err)
			return nil, errors.Wrap(err, "write session header")
		}
	}

	result := &types.CaptureResult{
		ID:         uuid.NewString(),
		CourseID:   req.Course,
		Header:     header,
		Column:     col,
		Created:    created,
		CapturedAt: now,
	}
	cells := make([]types.Cell, 0, len(r.table.Rows))
	for row := range r.table.Rows {
		mark := types.MarkAbsent
		id := r.studentID(row)
		if _, ok := tardy[id]; ok && id != "" {
			mark = types.MarkTardy
		} else if _, ok := present[id]; ok && id != "" {
			mark = types.MarkPresent
		}
		switch mark {
		case types.MarkPresent:
			result.Present++
		case types.MarkTardy:
			result.Tardy++
		default:
			result.Absent++
		}
		cells = append(cells, types.Cell{Row: row + 2, Col: col, Value: attendance.Symbol(mark)})
	}
	if err := s.store.WriteCells(ctx, req.Course, cells); err != nil {
		log.Error("capture mark write failed", "error", err, "header_created", created)
		return nil, errors.Wrap(err, "write marks")
	}

	metrics.Captures.WithLabelValues(strconv.FormatBool(created)).Inc()
	log.Info("attendance captured",
		"id", result.ID,
		"created", created,
		"present", result.Present,
		"tardy", result.Tardy,
		"absent", result.Absent,
	)

	if s.captures != nil {
		if err := s.captures.RecordCapture(ctx, *result); err != nil {
			log.Warn("capture log write failed", "id", result.ID, "error", err)
		}
	}
	return result, nil
}

// PendingTardies returns today's latest session of unit in course and the
// students marked absent there.
func (s *Service) PendingTardies(ctx context.Context, course, unit string) (*types.TardySession, error) {
	if _, err := attendance.CapturePrefix(unit); err != nil {
		return nil, errors.Wrap(ErrInvalidUnit, err.Error())
	}

	r, err := s.loadRoster(ctx, course)
	if err != nil {
		return nil, err
	}

	col, ok := attendance.LatestSessionColumn(r.table.Headers, unit, s.today())
	if !ok {
		return nil, errors.Wrapf(ErrNoSessionToday, "%s in %q", attendance.CanonicalUnit(unit), course)
	}
	absentees := attendance.Absentees(r.table, col)
	if absentees == nil {
		absentees = []types.Absentee{}
	}
	return &types.TardySession{
		CourseID:  course,
		Header:    r.table.Headers[col-1],
		Column:    col,
		Absentees: absentees,
	}, nil
}

// CorrectTardies turns the absences of the given students in today's latest
// session of unit into tardies. Students not absent there are ignored. The
// returned session lists the students corrected.
func (s *Service) CorrectTardies(ctx context.Context, course, unit string, studentIDs []string) (*types.TardySession, error) {
	pending, err := s.PendingTardies(ctx, course, unit)
	if err != nil {
		return nil, err
	}

	selected := idSet(studentIDs)
	corrected := []types.Absentee{}
	var cells []types.Cell
	for _, a := range pending.Absentees {
		if _, ok := selected[strings.TrimSpace(a.StudentID)]; !ok {
			continue
		}
		corrected = append(corrected, a)
		cells = append(cells, types.Cell{Row: a.Row, Col: pending.Column, Value: attendance.SymbolTardy})
	}

	if len(cells) > 0 {
		if err := s.store.WriteCells(ctx, course, cells); err != nil {
			return nil, errors.Wrap(err, "write tardies")
		}
		s.log.Info("tardies corrected", "course", course, "header", pending.Header, "count", len(cells))
	}

	pending.Absentees = corrected
	return pending, nil
}
