package attendance

import (
	"sort"
	"time"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

type accumulator struct {
	types.Rates
}

func (acc *accumulator) add(m types.Mark) {
	acc.Records++
	switch m {
	case types.MarkPresent:
		acc.Present++
	case types.MarkTardy:
		acc.Tardy++
	case types.MarkAbsent:
		acc.Absent++
	default:
		acc.Unknown++
	}
}

func (acc *accumulator) rates() types.Rates {
	r := acc.Rates
	if r.Records > 0 {
		n := float64(r.Records)
		r.PresentRate = float64(r.Present) / n
		r.TardyRate = float64(r.Tardy) / n
		r.AbsentRate = float64(r.Absent) / n
	}
	return r
}

// Tally computes the rates of a set of records.
func Tally(records []types.Record) types.Rates {
	var acc accumulator
	for _, r := range records {
		acc.add(r.Mark)
	}
	return acc.rates()
}

// FilterUnits keeps the records whose unit label is in units. An empty
// filter means every unit, not none.
func FilterUnits(records []types.Record, units []string) []types.Record {
	if len(units) == 0 {
		return records
	}
	keep := make(map[string]struct{}, len(units))
	for _, u := range units {
		keep[u] = struct{}{}
	}
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if _, ok := keep[r.Session.Unit]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate computes per-course rates over the records of the units in
// unitFilter (all units when empty). Courses left without records are
// omitted. Results follow the order in which courses first appear.
func Aggregate(records []types.Record, unitFilter []string) []types.RateAggregate {
	var (
		order []string
		accs  = make(map[string]*accumulator)
	)
	for _, r := range FilterUnits(records, unitFilter) {
		acc, ok := accs[r.CourseID]
		if !ok {
			acc = &accumulator{}
			accs[r.CourseID] = acc
			order = append(order, r.CourseID)
		}
		acc.add(r.Mark)
	}

	out := make([]types.RateAggregate, 0, len(order))
	for _, course := range order {
		rates := accs[course].rates()
		out = append(out, types.RateAggregate{CourseID: course, Rates: rates, Band: ComparisonBand(rates.PresentRate)})
	}
	return out
}

type trendKey struct {
	course string
	at     int64
}

// Trend is Aggregate keyed additionally by capture timestamp. Records
// without a timestamp are left out here only. Points are grouped by course
// in first-appearance order and sorted by time within a course.
func Trend(records []types.Record, unitFilter []string) []types.TrendPoint {
	var (
		courses = make(map[string]int)
		keys    []trendKey
		times   = make(map[trendKey]time.Time)
		accs    = make(map[trendKey]*accumulator)
	)
	for _, r := range FilterUnits(records, unitFilter) {
		if r.Session.CapturedAt == nil {
			continue
		}
		if _, ok := courses[r.CourseID]; !ok {
			courses[r.CourseID] = len(courses)
		}
		at := *r.Session.CapturedAt
		k := trendKey{course: r.CourseID, at: at.Unix()}
		acc, ok := accs[k]
		if !ok {
			acc = &accumulator{}
			accs[k] = acc
			times[k] = at
			keys = append(keys, k)
		}
		acc.add(r.Mark)
	}

	sort.Slice(keys, func(i, j int) bool {
		ci, cj := courses[keys[i].course], courses[keys[j].course]
		if ci != cj {
			return ci < cj
		}
		return keys[i].at < keys[j].at
	})

	out := make([]types.TrendPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.TrendPoint{
			CourseID:   k.course,
			CapturedAt: times[k],
			Rates:      accs[k].rates(),
		})
	}
	return out
}

// UnitBreakdown computes rates per unit label, in SortUnits order.
func UnitBreakdown(records []types.Record) []types.UnitRate {
	accs := make(map[string]*accumulator)
	for _, r := range records {
		acc, ok := accs[r.Session.Unit]
		if !ok {
			acc = &accumulator{}
			accs[r.Session.Unit] = acc
		}
		acc.add(r.Mark)
	}

	labels := make([]string, 0, len(accs))
	for label := range accs {
		labels = append(labels, label)
	}

	out := make([]types.UnitRate, 0, len(labels))
	for _, label := range SortUnits(labels) {
		rates := accs[label].rates()
		out = append(out, types.UnitRate{Unit: label, Rates: rates, Band: HealthBand(rates.PresentRate)})
	}
	return out
}

// StudentBreakdown computes rates per student in first-appearance order.
// Students are keyed by id and name together so rows without an id stay
// apart.
func StudentBreakdown(records []types.Record) []types.StudentRate {
	type studentKey struct{ id, name string }
	var (
		order []studentKey
		accs  = make(map[studentKey]*accumulator)
	)
	for _, r := range records {
		k := studentKey{r.StudentID, r.StudentName}
		acc, ok := accs[k]
		if !ok {
			acc = &accumulator{}
			accs[k] = acc
			order = append(order, k)
		}
		acc.add(r.Mark)
	}

	out := make([]types.StudentRate, 0, len(order))
	for _, k := range order {
		rates := accs[k].rates()
		out = append(out, types.StudentRate{
			StudentID:   k.id,
			StudentName: k.name,
			Rates:       rates,
			Band:        HealthBand(rates.PresentRate),
		})
	}
	return out
}

// StudentHistory is UnitBreakdown restricted to one student.
func StudentHistory(records []types.Record, studentID string) []types.UnitRate {
	var own []types.Record
	for _, r := range records {
		if r.StudentID == studentID {
			own = append(own, r)
		}
	}
	return UnitBreakdown(own)
}
