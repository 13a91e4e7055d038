package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
	"golang.org/x/text/unicode/norm"
)

// Canonical unit labels.
const (
	UnitPreparatory = "Preparatory"
	UnitTutoring    = "Tutoring"
	unitPrefix      = "Unit "
)

// headerSeparator splits "<prefix> - <date>[ <time>]".
const headerSeparator = " - "

// Layouts tried in order against a header suffix; first match wins.
var timestampLayouts = []struct {
	layout  string
	hasTime bool
}{
	{"2/1/2006 15:04", true},
	{"2/1/2006 15:04:05", true},
	{"2/1/2006", false},
}

// Header layouts written by captures.
const (
	captureDateLayout = "02/01/2006"
	captureTimeLayout = "15:04"
)

var unitNumberRe = regexp.MustCompile(`(?:unidad|unit|u)\s*-?\s*(\d+)`)

// UnitLabel returns the canonical label for unit number n.
func UnitLabel(n int) string {
	return unitPrefix + strconv.Itoa(n)
}

// foldPrefix lowercases s and strips its diacritics.
func foldPrefix(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitHeader(header string) (prefix, suffix string, ok bool) {
	i := strings.Index(header, headerSeparator)
	if i < 0 {
		return header, "", false
	}
	return header[:i], header[i+len(headerSeparator):], true
}

// IsAttendanceColumn is the one predicate deciding whether a column takes
// part in attendance math. The folded prefix must start with "unidad" or
// "unit", or with "u" followed somewhere by a digit, or with "proped" or
// "tutor".
func IsAttendanceColumn(header string) bool {
	prefix, _, _ := splitHeader(header)
	p := foldPrefix(strings.TrimSpace(prefix))
	switch {
	case strings.HasPrefix(p, "unidad"), strings.HasPrefix(p, "unit"):
		return true
	case strings.HasPrefix(p, "u") && strings.ContainsAny(p[1:], "0123456789"):
		return true
	case strings.HasPrefix(p, "proped"), strings.HasPrefix(p, "tutor"):
		return true
	}
	return false
}

// ParseHeader decodes a column header. It never fails: an unrecognised
// prefix becomes the unit label as written, and an unparseable or missing
// suffix leaves CapturedAt nil.
func ParseHeader(header string) types.SessionDescriptor {
	prefix, suffix, hasSuffix := splitHeader(header)
	d := types.SessionDescriptor{
		Header: header,
		Unit:   unitFromPrefix(prefix),
	}
	if !hasSuffix {
		return d
	}

	suffix = strings.TrimSpace(suffix)
	for _, l := range timestampLayouts {
		t, err := time.Parse(l.layout, suffix)
		if err != nil {
			continue
		}
		d.CapturedAt = &t
		d.HasTime = l.hasTime
		break
	}
	return d
}

func unitFromPrefix(prefix string) string {
	p := foldPrefix(prefix)
	switch {
	case strings.Contains(p, "propedeutico"):
		return UnitPreparatory
	case strings.Contains(p, "tutoria"):
		return UnitTutoring
	}
	if m := unitNumberRe.FindStringSubmatch(p); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return UnitLabel(n)
		}
	}
	return strings.TrimSpace(prefix)
}

// CapturePrefix validates the unit chosen for a capture and returns the
// header prefix written to the worksheet: "Unidad N", "Propedéutico" or
// "Tutoría". Bare numbers ("3") are accepted.
func CapturePrefix(unit string) (string, error) {
	unit = strings.TrimSpace(unit)
	if n, err := strconv.Atoi(unit); err == nil {
		if n <= 0 {
			return "", fmt.Errorf("unit number must be positive, got %d", n)
		}
		return "Unidad " + strconv.Itoa(n), nil
	}
	switch foldPrefix(unit) {
	case "preparatory":
		return "Propedéutico", nil
	case "tutoring":
		return "Tutoría", nil
	}
	if IsAttendanceColumn(unit) {
		switch label := unitFromPrefix(unit); label {
		case UnitPreparatory:
			return "Propedéutico", nil
		case UnitTutoring:
			return "Tutoría", nil
		default:
			if n, ok := unitNumber(label); ok && n > 0 {
				return "Unidad " + strconv.Itoa(n), nil
			}
		}
	}
	return "", fmt.Errorf("unrecognized unit %q", unit)
}

// FormatHeader builds the column header for a capture of unit at t, using
// t's wall clock: "Unidad 3 - 15/10/2025 10:00".
func FormatHeader(unit string, t time.Time) (string, error) {
	prefix, err := CapturePrefix(unit)
	if err != nil {
		return "", err
	}
	return prefix + headerSeparator + t.Format(captureDateLayout+" "+captureTimeLayout), nil
}

// unitNumber extracts N from a canonical "Unit N" label.
func unitNumber(label string) (int, bool) {
	if !strings.HasPrefix(label, unitPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(label[len(unitPrefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CanonicalUnit maps a user-supplied unit ("3", "Unidad 3", "u-3",
// "Tutoría") to the label ParseHeader would produce. Other text is returned
// trimmed.
func CanonicalUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if n, err := strconv.Atoi(unit); err == nil {
		return UnitLabel(n)
	}
	switch foldPrefix(unit) {
	case "preparatory":
		return UnitPreparatory
	case "tutoring":
		return UnitTutoring
	}
	if IsAttendanceColumn(unit) {
		return unitFromPrefix(unit)
	}
	return unit
}
