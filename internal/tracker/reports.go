package tracker

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// ComparisonQuery selects the courses and units of a comparison. Empty
// slices mean every course and every unit.
type ComparisonQuery struct {
	Courses []string
	Units   []string
}

// Compare aggregates the selected courses side by side. Units lists every
// unit present before the unit filter is applied.
func (s *Service) Compare(ctx context.Context, q ComparisonQuery) (*types.Comparison, error) {
	courses := q.Courses
	if len(courses) == 0 {
		all, err := s.reader.ListWorksheets(ctx)
		if err != nil {
			return nil, err
		}
		courses = all
	}

	records, err := s.Records(ctx, courses)
	if err != nil {
		return nil, err
	}

	filter := canonicalUnits(q.Units)
	return &types.Comparison{
		Courses: courses,
		Units:   attendance.UnitLabels(records),
		Filter:  filter,
		Summary: attendance.Aggregate(records, filter),
		Trend:   attendance.Trend(records, filter),
	}, nil
}

func canonicalUnits(units []string) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		if strings.TrimSpace(u) == "" {
			continue
		}
		out = append(out, attendance.CanonicalUnit(u))
	}
	return out
}

// CourseReport breaks one course down by unit and by student.
func (s *Service) CourseReport(ctx context.Context, course string) (*types.CourseReport, error) {
	records, err := s.Records(ctx, []string{course})
	if err != nil {
		return nil, err
	}

	overall := attendance.Tally(records)
	return &types.CourseReport{
		CourseID: course,
		Overall: types.RateAggregate{
			CourseID: course,
			Rates:    overall,
			Band:     attendance.HealthBand(overall.PresentRate),
		},
		Units:    attendance.UnitBreakdown(records),
		Students: attendance.StudentBreakdown(records),
	}, nil
}

// StudentReport is one student's attendance per unit within a course.
func (s *Service) StudentReport(ctx context.Context, course, studentID string) (*types.StudentReport, error) {
	records, err := s.Records(ctx, []string{course})
	if err != nil {
		return nil, err
	}

	studentID = strings.TrimSpace(studentID)
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		return &types.StudentReport{
			CourseID:    course,
			StudentID:   studentID,
			StudentName: r.StudentName,
			Units:       attendance.StudentHistory(records, studentID),
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStudent, "%q in %q", studentID, course)
}
