package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		unit    string
		at      time.Time
		hasTime bool
		noTime  bool
	}{
		{name: "unidad with time", header: "Unidad 3 - 15/10/2025 10:00", unit: "Unit 3", at: time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC), hasTime: true},
		{name: "propedeutico date only", header: "Propedéutico - 12/09/2025", unit: UnitPreparatory, at: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)},
		{name: "letter prefix", header: "U4 - 01/10/2025", unit: "Unit 4", at: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
		{name: "english unit", header: "Unit 5 - 1/9/2025 7:05", unit: "Unit 5", at: time.Date(2025, 9, 1, 7, 5, 0, 0, time.UTC), hasTime: true},
		{name: "seconds", header: "Tutoría - 01/10/2025 08:30:15", unit: UnitTutoring, at: time.Date(2025, 10, 1, 8, 30, 15, 0, time.UTC), hasTime: true},
		{name: "dashed letter prefix", header: "u-2 - 03/09/2025", unit: "Unit 2", at: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)},
		{name: "unparseable date", header: "Unidad 2 - mañana", unit: "Unit 2", noTime: true},
		{name: "no separator", header: "Random Column", unit: "Random Column", noTime: true},
		{name: "unit without date", header: "Unidad 7", unit: "Unit 7", noTime: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHeader(tt.header)
			assert.Equal(t, tt.header, got.Header)
			assert.Equal(t, tt.unit, got.Unit)
			if tt.noTime {
				assert.Nil(t, got.CapturedAt)
				assert.False(t, got.HasTime)
				return
			}
			require.NotNil(t, got.CapturedAt)
			assert.True(t, tt.at.Equal(*got.CapturedAt), "got %v", got.CapturedAt)
			assert.Equal(t, tt.hasTime, got.HasTime)
		})
	}
}

func TestIsAttendanceColumn(t *testing.T) {
	yes := []string{
		"Unidad 1 - 01/09/2025",
		"UNIDAD 2 - 01/09/2025 10:00",
		"Unit 3 - 01/09/2025",
		"U4 - 01/10/2025",
		"u 5",
		"Propedéutico - 12/09/2025",
		"Propedeutico",
		"Tutoría - 01/10/2025",
		"  Unidad 6 - 01/10/2025",
	}
	no := []string{
		"No de control",
		"Nombre",
		"Grupo",
		"Docente",
		"Correo",
		"Usuario",
		"Random Column",
		"",
	}
	for _, h := range yes {
		assert.True(t, IsAttendanceColumn(h), h)
	}
	for _, h := range no {
		assert.False(t, IsAttendanceColumn(h), h)
	}
}

func TestCapturePrefix(t *testing.T) {
	tests := []struct {
		unit    string
		want    string
		wantErr bool
	}{
		{unit: "3", want: "Unidad 3"},
		{unit: " 12 ", want: "Unidad 12"},
		{unit: "Unidad 4", want: "Unidad 4"},
		{unit: "U3", want: "Unidad 3"},
		{unit: "Unit 2", want: "Unidad 2"},
		{unit: "Preparatory", want: "Propedéutico"},
		{unit: "Propedéutico", want: "Propedéutico"},
		{unit: "Tutoring", want: "Tutoría"},
		{unit: "tutoria", want: "Tutoría"},
		{unit: "0", wantErr: true},
		{unit: "-1", wantErr: true},
		{unit: "Cálculo", wantErr: true},
		{unit: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got, err := CapturePrefix(tt.unit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHeaderRoundTrip(t *testing.T) {
	at := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	h, err := FormatHeader("3", at)
	require.NoError(t, err)
	assert.Equal(t, "Unidad 3 - 15/10/2025 10:00", h)

	for _, unit := range []string{"1", "Unidad 9", "Preparatory", "Tutoría"} {
		h, err := FormatHeader(unit, at)
		require.NoError(t, err)
		assert.True(t, IsAttendanceColumn(h), h)

		s := ParseHeader(h)
		assert.Equal(t, CanonicalUnit(unit), s.Unit, h)
		require.NotNil(t, s.CapturedAt)
		assert.True(t, at.Equal(*s.CapturedAt))
		assert.True(t, s.HasTime)
	}

	_, err = FormatHeader("Historia", at)
	assert.Error(t, err)
}

func TestCanonicalUnit(t *testing.T) {
	assert.Equal(t, "Unit 3", CanonicalUnit("3"))
	assert.Equal(t, "Unit 3", CanonicalUnit("Unidad 3"))
	assert.Equal(t, "Unit 3", CanonicalUnit("u-3"))
	assert.Equal(t, UnitPreparatory, CanonicalUnit("Propedéutico"))
	assert.Equal(t, UnitPreparatory, CanonicalUnit("preparatory"))
	assert.Equal(t, UnitTutoring, CanonicalUnit("Tutoría"))
	assert.Equal(t, "Extra", CanonicalUnit(" Extra "))
}
