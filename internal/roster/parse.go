package roster

import (
	"regexp"
	"strings"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

var (
	rowNumberRe     = regexp.MustCompile(`^\d+$`)
	rowNumberMarkRe = regexp.MustCompile(`^\d+\s+(?:[A-ZÁÉÍÓÚÑ]|\*{1,3})$`)
	markRe          = regexp.MustCompile(`^(?:[A-ZÁÉÍÓÚÑ]|\*{1,3})$`)
	leadingMarkRe   = regexp.MustCompile(`^(?:[A-ZÁÉÍÓÚÑ]|\*{1,3})\s+`)
	controlRe       = regexp.MustCompile(`^C?\d{8}$`)
	groupRe         = regexp.MustCompile(`^\d{3}$`)
	spacesRe        = regexp.MustCompile(`\s{2,}`)
)

// Distances, in lines, from a header label to its value.
const (
	subjectOffset    = 3
	instructorOffset = 2
	groupWindow      = 5
	controlWindow    = 3
)

// Parse reads a roster from the text lines of a class list. Header values
// may sit on the label's own line ("MATERIA: ESTATICA") or a fixed number
// of lines below it. Students are rows that start with a row number,
// optionally followed by a status mark, then the name, then the control
// number within the next lines. A row holding all of them on one line is
// accepted too. Lines that fit neither shape are ignored.
func Parse(lines []string) *Roster {
	r := &Roster{}
	parseHeader(lines, r)

	n := len(lines)
	for i := 0; i < n; {
		line := strings.TrimSpace(lines[i])

		if s, ok := singleLineStudent(line); ok {
			r.Students = append(r.Students, s)
			i++
			continue
		}
		if !rowNumberRe.MatchString(line) && !rowNumberMarkRe.MatchString(line) {
			i++
			continue
		}

		i++
		for i < n && markRe.MatchString(strings.TrimSpace(lines[i])) {
			i++
		}
		if i >= n {
			break
		}

		name := strings.TrimSpace(lines[i])
		if name == "" && i+1 < n {
			i++
			name = strings.TrimSpace(lines[i])
		}
		name = cleanName(name)

		control := ""
		for j := i + 1; j < min(n, i+1+controlWindow); j++ {
			if cand := strings.TrimSpace(lines[j]); controlRe.MatchString(cand) {
				control = cand
				i = j + 1
				break
			}
		}
		if control == "" {
			i++
			continue
		}
		r.Students = append(r.Students, types.RosterRow{StudentID: control, StudentName: name})
	}

	for k := range r.Students {
		r.Students[k].Group = r.Group
		r.Students[k].Instructor = r.Instructor
	}
	return r
}

func parseHeader(lines []string, r *Roster) {
	for i, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.Contains(upper, "MATERIA") && r.Subject == "":
			if v := inlineValue(line); v != "" {
				r.Subject = v
			} else if i+subjectOffset < len(lines) {
				r.Subject = strings.TrimSpace(lines[i+subjectOffset])
			}
		case strings.Contains(upper, "GRUPO") && r.Group == "":
			r.Group = findGroup(lines[i:min(len(lines), i+groupWindow)])
		case strings.Contains(upper, "CATEDRATICO") && r.Instructor == "":
			if v := inlineValue(line); v != "" {
				r.Instructor = v
			} else if i+instructorOffset < len(lines) {
				r.Instructor = strings.TrimSpace(lines[i+instructorOffset])
			}
		}
	}
}

// inlineValue returns what follows the first colon of a "LABEL: value" line.
func inlineValue(line string) string {
	_, v, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return collapse(v)
}

func findGroup(window []string) string {
	for k, l := range window {
		s := strings.TrimSpace(l)
		if groupRe.MatchString(s) {
			return s
		}
		if k == 0 {
			// "GRUPO: 611" on the label line
			for _, f := range strings.Fields(strings.ReplaceAll(s, ":", " ")) {
				if groupRe.MatchString(f) {
					return f
				}
			}
		}
	}
	return ""
}

// singleLineStudent matches "<n> [mark] <name...> <control> [...]".
func singleLineStudent(line string) (types.RosterRow, bool) {
	f := strings.Fields(line)
	if len(f) < 3 || !rowNumberRe.MatchString(f[0]) {
		return types.RosterRow{}, false
	}
	start := 1
	if markRe.MatchString(f[1]) {
		start = 2
	}
	for k := start + 1; k < len(f); k++ {
		if controlRe.MatchString(f[k]) {
			return types.RosterRow{StudentID: f[k], StudentName: strings.Join(f[start:k], " ")}, true
		}
	}
	return types.RosterRow{}, false
}

func cleanName(name string) string {
	return collapse(leadingMarkRe.ReplaceAllString(name, ""))
}

func collapse(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
