package attendance

// Comparison bands of a course's present rate.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Health bands used in course and student reports.
const (
	BandExcellent  = "excellent"
	BandAcceptable = "acceptable"
	BandRisk       = "risk"
)

// ComparisonBand classifies a present rate in [0,1] for the cross-course
// comparison: high from 95%, medium from 85%.
func ComparisonBand(rate float64) string {
	switch {
	case rate >= 0.95:
		return BandHigh
	case rate >= 0.85:
		return BandMedium
	default:
		return BandLow
	}
}

// HealthBand classifies a present rate for single-course reports:
// excellent from 85%, acceptable from 70%, risk below.
func HealthBand(rate float64) string {
	switch {
	case rate >= 0.85:
		return BandExcellent
	case rate >= 0.70:
		return BandAcceptable
	default:
		return BandRisk
	}
}
