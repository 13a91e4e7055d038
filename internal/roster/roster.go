// Package roster reads the class-list PDF exported by the school information
// system and turns it into a course worksheet.
package roster

import (
	"strings"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Columns of a course worksheet created from a roster, in order.
var Headers = []string{"Dirección", "Telefono", "Correo", "No de control", "Nombre", "Grupo", "Docente"}

const maxTitleLen = 95

// Roster is a parsed class list.
type Roster struct {
	Subject    string
	Group      string
	Instructor string
	Students   []types.RosterRow
}

// Title is the worksheet title for the roster: "<group> - <subject>".
func (r *Roster) Title() string {
	return SanitizeTitle(strings.TrimSpace(r.Group + " - " + r.Subject))
}

// Table lays the roster out as a course worksheet with no sessions yet.
func (r *Roster) Table() *types.Table {
	t := &types.Table{
		Headers: append([]string(nil), Headers...),
		Rows:    make([][]string, 0, len(r.Students)),
	}
	for _, s := range r.Students {
		group, instructor := s.Group, s.Instructor
		if group == "" {
			group = r.Group
		}
		if instructor == "" {
			instructor = r.Instructor
		}
		t.Rows = append(t.Rows, []string{s.Address, s.Phone, s.Email, s.StudentID, s.StudentName, group, instructor})
	}
	return t
}

// SanitizeTitle replaces the characters worksheet titles may not contain
// and caps the length.
func SanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, title)
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}
	return title
}
