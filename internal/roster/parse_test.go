package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Layout of the class list as a text stream: labels and values on their own
// lines, one cell per line in the student table.
const multiLineList = `INSTITUTO TECNOLOGICO
LISTA DE ASISTENCIA
MATERIA
CLAVE
ESTA-101
ESTATICA
GRUPO
PERIODO
611
CATEDRATICO
RFC
MENDEZ RUIZ BLADIMIR
No.
NOMBRE
NO. DE CONTROL
1
ORTIZ  PEREZ JUAN
C21010001
2 R
LOPEZ GARCIA ANA
21010002
3
**
TORRES DIAZ LUIS
21010003
4

SALAS MORA EVA
extra
21010004
5
SIN CONTROL
nada
mas
aqui
`

func TestParseMultiLine(t *testing.T) {
	r := Parse(strings.Split(multiLineList, "\n"))

	assert.Equal(t, "ESTATICA", r.Subject)
	assert.Equal(t, "611", r.Group)
	assert.Equal(t, "MENDEZ RUIZ BLADIMIR", r.Instructor)

	require.Len(t, r.Students, 4)
	assert.Equal(t, types.RosterRow{StudentID: "C21010001", StudentName: "ORTIZ PEREZ JUAN", Group: "611", Instructor: "MENDEZ RUIZ BLADIMIR"}, r.Students[0])
	assert.Equal(t, "LOPEZ GARCIA ANA", r.Students[1].StudentName)
	assert.Equal(t, "21010002", r.Students[1].StudentID)
	assert.Equal(t, "TORRES DIAZ LUIS", r.Students[2].StudentName)
	assert.Equal(t, "SALAS MORA EVA", r.Students[3].StudentName)
	assert.Equal(t, "21010004", r.Students[3].StudentID)
}

func TestParseRowLayout(t *testing.T) {
	lines := []string{
		"LISTA DE ASISTENCIA",
		"MATERIA: DINAMICA",
		"GRUPO: 712 PERIODO: AGO-DIC 2025",
		"CATEDRATICO: GOMEZ  LARA ROSA",
		"No. NOMBRE NO. DE CONTROL",
		"1 R ORTIZ PEREZ JUAN C21010001",
		"2 LOPEZ GARCIA ANA 21010002 ING. MECANICA",
		"3 ** TORRES DIAZ LUIS 21010003",
		"4 SIN CONTROL",
	}
	r := Parse(lines)

	assert.Equal(t, "DINAMICA", r.Subject)
	assert.Equal(t, "712", r.Group)
	assert.Equal(t, "GOMEZ LARA ROSA", r.Instructor)
	require.Len(t, r.Students, 3)
	assert.Equal(t, "ORTIZ PEREZ JUAN", r.Students[0].StudentName)
	assert.Equal(t, "C21010001", r.Students[0].StudentID)
	assert.Equal(t, "LOPEZ GARCIA ANA", r.Students[1].StudentName)
	assert.Equal(t, "TORRES DIAZ LUIS", r.Students[2].StudentName)
}

func TestParseNothing(t *testing.T) {
	r := Parse([]string{"hola", "", "mundo"})
	assert.Empty(t, r.Students)
	assert.Empty(t, r.Subject)
	assert.Empty(t, Parse(nil).Students)
}

func TestRosterTable(t *testing.T) {
	r := &Roster{
		Subject:    "ESTATICA",
		Group:      "611",
		Instructor: "MENDEZ",
		Students:   []types.RosterRow{{StudentID: "C21010001", StudentName: "ORTIZ PEREZ JUAN"}},
	}
	tbl := r.Table()
	assert.Equal(t, Headers, tbl.Headers)
	assert.Equal(t, [][]string{{"", "", "", "C21010001", "ORTIZ PEREZ JUAN", "611", "MENDEZ"}}, tbl.Rows)
	assert.Equal(t, "611 - ESTATICA", r.Title())

	// the worksheet is readable as a course
	assert.Equal(t, 3, tbl.ColumnIndex("No de control"))
	assert.Equal(t, 4, tbl.ColumnIndex("Nombre"))
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "611 - ESTATICA-DINAMICA", SanitizeTitle(" 611 - ESTATICA/DINAMICA "))
	assert.Equal(t, "a-b-c-d-e-f-g", SanitizeTitle("a:b\\c?d*e[f]g"))

	long := SanitizeTitle(strings.Repeat("á", 120))
	assert.Equal(t, 95, len([]rune(long)))
}
