package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/sheets"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const (
	statics  = "611 - Estática"
	dynamics = "712 - Dinámica"
)

var cst = time.FixedZone("CST", -6*3600)

// Wednesday 15 October 2025, 10:00 local.
var wednesday = time.Date(2025, 10, 15, 10, 0, 0, 0, cst)

type captureLog struct {
	got []types.CaptureResult
	err error
}

func (l *captureLog) RecordCapture(_ context.Context, c types.CaptureResult) error {
	l.got = append(l.got, c)
	return l.err
}

type archive struct {
	names []string
	err   error
}

func (a *archive) UploadRoster(_ context.Context, name string, data []byte) (string, error) {
	a.names = append(a.names, name)
	if a.err != nil {
		return "", a.err
	}
	return "https://storage.example/" + name, nil
}

func newStore() *sheets.MemoryStore {
	m := sheets.NewMemoryStore("test")
	m.Put(statics, &types.Table{
		Headers: []string{"Dirección", "No de control", "Nombre", "Unidad 1 - 01/09/2025 10:00"},
		Rows: [][]string{
			{"", "C21010001", "Ana", "✓"},
			{"", "21010002", "Bruno", "✗"},
			{"", "21010003", "Carla", "~"},
		},
	})
	m.Put(dynamics, &types.Table{
		Headers: []string{"No de control", "Nombre", "Unidad 2 - 02/09/2025 12:00", "Tutoría - 03/09/2025"},
		Rows: [][]string{
			{"31010001", "Dana", "✓", "✓"},
		},
	})
	m.Put("Vacía", &types.Table{Headers: []string{"No de control", "Nombre"}})
	return m
}

func newService(m *sheets.MemoryStore, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return wednesday }
	}
	if opts.Location == nil {
		opts.Location = cst
	}
	return New(m, nil, opts)
}

func TestCaptureCreatesColumn(t *testing.T) {
	m := newStore()
	log := &captureLog{}
	svc := newService(m, Options{Captures: log, WeekdaysOnly: true})

	res, err := svc.Capture(context.Background(), CaptureRequest{
		Course:  statics,
		Unit:    "3",
		Present: []string{"C21010001"},
		Tardy:   []string{" 21010003 "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Unidad 3 - 15/10/2025 10:00", res.Header)
	assert.Equal(t, 5, res.Column)
	assert.True(t, res.Created)
	assert.Equal(t, 1, res.Present)
	assert.Equal(t, 1, res.Tardy)
	assert.Equal(t, 1, res.Absent)
	assert.NotEmpty(t, res.ID)

	tbl := m.Table(statics)
	assert.Equal(t, "Unidad 3 - 15/10/2025 10:00", tbl.Headers[4])
	assert.Equal(t, []string{"✓", "✗", "~"}, []string{tbl.Value(0, 4), tbl.Value(1, 4), tbl.Value(2, 4)})

	require.Len(t, log.got, 1)
	assert.Equal(t, res.ID, log.got[0].ID)

	// the new session is part of the course from now on
	rep, err := svc.CourseReport(context.Background(), statics)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit 1", "Unit 3"}, []string{rep.Units[0].Unit, rep.Units[1].Unit})
}

func TestCaptureReusesColumnWithinTheMinute(t *testing.T) {
	m := newStore()
	svc := newService(m, Options{})
	ctx := context.Background()

	first, err := svc.Capture(ctx, CaptureRequest{Course: statics, Unit: "Unidad 2"})
	require.NoError(t, err)
	second, err := svc.Capture(ctx, CaptureRequest{Course: statics, Unit: "U2", Present: []string{"21010002"}})
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.Column, second.Column)
	assert.Equal(t, 1, m.Calls(sheets.OpWriteHeader))
	assert.Equal(t, "✓", m.Table(statics).Value(1, first.Column-1))
	assert.Len(t, m.Table(statics).Headers, 5)
}

func TestCaptureHeaderFailureWritesNoMarks(t *testing.T) {
	m := newStore()
	m.FailWith(func(op, _ string) error {
		if op == sheets.OpWriteHeader {
			return &sheets.Error{Op: op, Err: errors.New("backend error")}
		}
		return nil
	})
	svc := newService(m, Options{})

	_, err := svc.Capture(context.Background(), CaptureRequest{Course: statics, Unit: "3"})
	assert.True(t, errors.Is(err, sheets.ErrUnavailable))
	assert.Equal(t, 0, m.Calls(sheets.OpWriteCells))
	assert.Len(t, m.Table(statics).Headers, 4)
}

func TestCaptureRejects(t *testing.T) {
	saturday := time.Date(2025, 10, 18, 9, 0, 0, 0, cst)
	tests := []struct {
		name string
		now  time.Time
		req  CaptureRequest
		want error
	}{
		{name: "unknown course", req: CaptureRequest{Course: "999 - Nada", Unit: "1"}, want: ErrUnknownCourse},
		{name: "empty roster", req: CaptureRequest{Course: "Vacía", Unit: "1"}, want: ErrNoStudents},
		{name: "bad unit", req: CaptureRequest{Course: statics, Unit: "Historia"}, want: ErrInvalidUnit},
		{name: "unknown student", req: CaptureRequest{Course: statics, Unit: "1", Present: []string{"99999999"}}, want: ErrUnknownStudent},
		{name: "weekend", now: saturday, req: CaptureRequest{Course: statics, Unit: "1"}, want: ErrNotSchoolDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStore()
			opts := Options{WeekdaysOnly: true}
			if !tt.now.IsZero() {
				now := tt.now
				opts.Now = func() time.Time { return now }
			}
			svc := newService(m, opts)

			_, err := svc.Capture(context.Background(), tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, m.Calls(sheets.OpWriteHeader))
			assert.Equal(t, 0, m.Calls(sheets.OpWriteCells))
		})
	}
}

func TestCaptureLogFailureIsNotFatal(t *testing.T) {
	svc := newService(newStore(), Options{Captures: &captureLog{err: errors.New("firestore down")}})
	_, err := svc.Capture(context.Background(), CaptureRequest{Course: statics, Unit: "1"})
	assert.NoError(t, err)
}

func TestTardies(t *testing.T) {
	m := newStore()
	svc := newService(m, Options{})
	ctx := context.Background()

	_, err := svc.PendingTardies(ctx, statics, "1")
	assert.True(t, errors.Is(err, ErrNoSessionToday))

	_, err = svc.Capture(ctx, CaptureRequest{Course: statics, Unit: "1", Present: []string{"C21010001"}})
	require.NoError(t, err)

	pending, err := svc.PendingTardies(ctx, statics, "Unidad 1")
	require.NoError(t, err)
	assert.Equal(t, "Unidad 1 - 15/10/2025 10:00", pending.Header)
	require.Len(t, pending.Absentees, 2)
	assert.Equal(t, "21010002", pending.Absentees[0].StudentID)
	assert.Equal(t, 3, pending.Absentees[0].Row)

	done, err := svc.CorrectTardies(ctx, statics, "1", []string{"21010003", "C21010001"})
	require.NoError(t, err)
	require.Len(t, done.Absentees, 1)
	assert.Equal(t, "Carla", done.Absentees[0].StudentName)

	tbl := m.Table(statics)
	assert.Equal(t, attendance.SymbolTardy, tbl.Value(2, 4))
	assert.Equal(t, attendance.SymbolAbsent, tbl.Value(1, 4))
	assert.Equal(t, attendance.SymbolPresent, tbl.Value(0, 4))

	_, err = svc.PendingTardies(ctx, statics, "nope")
	assert.True(t, errors.Is(err, ErrInvalidUnit))
}

func TestCompare(t *testing.T) {
	svc := newService(newStore(), Options{})
	ctx := context.Background()

	all, err := svc.Compare(ctx, ComparisonQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{statics, dynamics, "Vacía"}, all.Courses)
	assert.Equal(t, []string{"Unit 1", "Unit 2", "Tutoring"}, all.Units)
	require.Len(t, all.Summary, 2)
	assert.Equal(t, statics, all.Summary[0].CourseID)
	assert.InDelta(t, 1.0/3, all.Summary[0].PresentRate, 1e-9)
	assert.InDelta(t, 1.0/3, all.Summary[0].TardyRate, 1e-9)
	assert.InDelta(t, 1.0/3, all.Summary[0].AbsentRate, 1e-9)
	assert.Equal(t, attendance.BandHigh, all.Summary[1].Band)
	assert.Len(t, all.Trend, 3)

	filtered, err := svc.Compare(ctx, ComparisonQuery{Courses: []string{dynamics, statics}, Units: []string{"2", "Tutoría"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit 2", "Tutoring"}, filtered.Filter)
	require.Len(t, filtered.Summary, 1)
	assert.Equal(t, dynamics, filtered.Summary[0].CourseID)
	assert.Equal(t, 2, filtered.Summary[0].Records)

	_, err = svc.Compare(ctx, ComparisonQuery{Courses: []string{"nope"}})
	assert.True(t, errors.Is(err, ErrUnknownCourse))
}

func TestCourseAndStudentReports(t *testing.T) {
	svc := newService(newStore(), Options{})
	ctx := context.Background()

	course, err := svc.Course(ctx, dynamics)
	require.NoError(t, err)
	assert.Equal(t, 1, course.Students)
	assert.Equal(t, []string{"Unit 2", "Tutoring"}, course.Units)
	assert.Len(t, course.Sessions, 2)

	rep, err := svc.CourseReport(ctx, statics)
	require.NoError(t, err)
	assert.Equal(t, attendance.BandRisk, rep.Overall.Band)
	require.Len(t, rep.Students, 3)
	assert.Equal(t, "Bruno", rep.Students[1].StudentName)
	assert.Equal(t, 1, rep.Students[1].Absent)

	st, err := svc.StudentReport(ctx, dynamics, "31010001")
	require.NoError(t, err)
	assert.Equal(t, "Dana", st.StudentName)
	assert.Len(t, st.Units, 2)

	_, err = svc.StudentReport(ctx, dynamics, "nobody")
	assert.True(t, errors.Is(err, ErrUnknownStudent))

	empty, err := svc.CourseReport(ctx, "Vacía")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Overall.Records)
}

func TestImportRoster(t *testing.T) {
	m := newStore()
	arch := &archive{}
	svc := newService(m, Options{Archive: arch})
	ctx := context.Background()

	r := &roster.Roster{
		Subject:    "ESTATICA",
		Group:      "611",
		Instructor: "MENDEZ",
		Students:   []types.RosterRow{{StudentID: "C21010001", StudentName: "ORTIZ PEREZ JUAN"}},
	}
	out, err := svc.ImportRoster(ctx, r, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "611 - ESTATICA", out.Worksheet)
	assert.True(t, out.Committed)
	assert.Equal(t, "https://storage.example/rosters/611 - ESTATICA.pdf", out.ArchiveURL)
	assert.Equal(t, roster.Headers, m.Table("611 - ESTATICA").Headers)

	// imported worksheets accept captures right away
	res, err := svc.Capture(ctx, CaptureRequest{Course: out.Worksheet, Unit: "1", Present: []string{"C21010001"}})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Column)

	arch.err = errors.New("bucket missing")
	out, err = svc.ImportRoster(ctx, r, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Empty(t, out.ArchiveURL)

	_, err = svc.ImportRoster(ctx, &roster.Roster{Group: "611", Subject: "X"}, nil)
	assert.True(t, errors.Is(err, ErrNoStudents))
	_, err = svc.ImportRoster(ctx, &roster.Roster{Subject: "X"}, nil)
	assert.True(t, errors.Is(err, ErrIncompleteRoster))
}
