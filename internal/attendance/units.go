package attendance

import (
	"sort"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// unit ordering groups
const (
	rankNumbered = iota
	rankPreparatory
	rankTutoring
	rankOther
)

func unitRank(label string) (rank, n int) {
	if n, ok := unitNumber(label); ok {
		return rankNumbered, n
	}
	switch label {
	case UnitPreparatory:
		return rankPreparatory, 0
	case UnitTutoring:
		return rankTutoring, 0
	}
	return rankOther, 0
}

func unitLess(a, b string) bool {
	ra, na := unitRank(a)
	rb, nb := unitRank(b)
	if ra != rb {
		return ra < rb
	}
	if ra == rankNumbered && na != nb {
		return na < nb
	}
	// "Unit 01" and "Unit 1" share a number; fall back to the text.
	return a < b
}

// SortUnits returns the distinct labels ordered "Unit N" ascending by N,
// then Preparatory, then Tutoring, then everything else lexically.
func SortUnits(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return unitLess(out[i], out[j]) })
	return out
}

// UnitLabels returns the distinct unit labels of records in SortUnits order.
func UnitLabels(records []types.Record) []string {
	labels := make([]string, 0, 8)
	for _, r := range records {
		labels = append(labels, r.Session.Unit)
	}
	return SortUnits(labels)
}
