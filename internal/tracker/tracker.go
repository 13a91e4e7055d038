// Package tracker is the attendance service: it reads course worksheets
// through the store, runs them through the attendance pipeline and writes
// captures back. Every surface (HTTP, CLI) goes through a Service.
package tracker

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/sheets"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

var (
	ErrUnknownCourse   = errors.New("unknown course")
	ErrUnknownStudent  = errors.New("unknown student")
	ErrInvalidUnit     = errors.New("invalid unit")
	ErrNoStudents      = errors.New("course has no students")
	ErrNotSchoolDay    = errors.New("captures are only accepted on weekdays")
	ErrNoSessionToday  = errors.New("no session captured today for this unit")
	ErrMissingIdentity = errors.New("worksheet lacks the No de control or Nombre column")
)

// DefaultTimezone is where headers are stamped and "today" is decided.
const DefaultTimezone = "America/Mexico_City"

// CaptureLog keeps an audit trail of captures. Failures are logged and do
// not fail the capture.
type CaptureLog interface {
	RecordCapture(ctx context.Context, c types.CaptureResult) error
}

// Archive stores the source documents of imported rosters and returns a
// download URL.
type Archive interface {
	UploadRoster(ctx context.Context, name string, data []byte) (string, error)
}

// Options holds the optional collaborators of a Service.
type Options struct {
	Captures     CaptureLog
	Archive      Archive
	Logger       *logger.Logger
	Location     *time.Location
	Now          func() time.Time
	WeekdaysOnly bool
}

type Service struct {
	store  sheets.Store
	reader sheets.Store

	captures     CaptureLog
	archive      Archive
	log          *logger.Logger
	loc          *time.Location
	now          func() time.Time
	weekdaysOnly bool
}

// New builds a Service. store serves captures and tardy corrections, which
// must read their own writes; reader serves reports and may be cached.
func New(store, reader sheets.Store, opts Options) *Service {
	if reader == nil {
		reader = store
	}
	s := &Service{
		store:        store,
		reader:       reader,
		captures:     opts.Captures,
		archive:      opts.Archive,
		log:          opts.Logger,
		loc:          opts.Location,
		now:          opts.Now,
		weekdaysOnly: opts.WeekdaysOnly,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Courses lists the course worksheets.
func (s *Service) Courses(ctx context.Context) ([]string, error) {
	return s.reader.ListWorksheets(ctx)
}

// readTable reads a course worksheet, mapping a missing worksheet to
// ErrUnknownCourse.
func readTable(ctx context.Context, st sheets.Store, course string) (*types.Table, error) {
	t, err := st.ReadTable(ctx, course)
	if errors.Is(err, sheets.ErrNotFound) {
		return nil, errors.Wrapf(ErrUnknownCourse, "%q", course)
	}
	return t, err
}

// Course describes one course: its roster size, units and sessions.
func (s *Service) Course(ctx context.Context, course string) (*types.Course, error) {
	t, err := readTable(ctx, s.reader, course)
	if err != nil {
		return nil, err
	}

	c := &types.Course{ID: course, Students: len(t.Rows), Units: []string{}, Sessions: []types.SessionDescriptor{}}
	var units []string
	for _, col := range attendance.AttendanceColumns(t.Headers) {
		sd := attendance.ParseHeader(t.Headers[col])
		c.Sessions = append(c.Sessions, sd)
		units = append(units, sd.Unit)
	}
	c.Units = append(c.Units, attendance.SortUnits(units)...)
	return c, nil
}

// Records reads and melts the given courses, all of them when courses is
// empty. Courses without students contribute nothing.
func (s *Service) Records(ctx context.Context, courses []string) ([]types.Record, error) {
	if len(courses) == 0 {
		all, err := s.reader.ListWorksheets(ctx)
		if err != nil {
			return nil, err
		}
		courses = all
	}

	var records []types.Record
	for _, course := range courses {
		t, err := readTable(ctx, s.reader, course)
		if err != nil {
			return nil, err
		}
		records = append(records, attendance.Melt(t, course)...)
	}
	return records, nil
}
