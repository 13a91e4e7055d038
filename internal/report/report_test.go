package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

func comparison() *types.Comparison {
	tables := map[string]*types.Table{
		"611 - Estática": {
			Headers: []string{"No de control", "Nombre", "Unidad 1 - 01/09/2025 10:00", "Unidad 1 - 08/09/2025 10:00"},
			Rows:    [][]string{{"1", "Ana", "✓", "✓"}, {"2", "Bruno", "✗", "~"}, {"3", "Carla", "~", "✓"}},
		},
		"712 - Dinámica": {
			Headers: []string{"No de control", "Nombre", "Unidad 1 - 02/09/2025 12:00"},
			Rows:    [][]string{{"4", "Dana", "✓"}},
		},
	}
	var records []types.Record
	for _, id := range []string{"611 - Estática", "712 - Dinámica"} {
		records = append(records, attendance.Melt(tables[id], id)...)
	}
	return &types.Comparison{
		Courses: []string{"611 - Estática", "712 - Dinámica"},
		Units:   attendance.UnitLabels(records),
		Summary: attendance.Aggregate(records, nil),
		Trend:   attendance.Trend(records, nil),
	}
}

func TestWriteComparisonXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonXLSX(&buf, comparison()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetTrend}, f.GetSheetList())

	v, err := f.GetCellValue(SheetSummary, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Grupo", v)

	v, _ = f.GetCellValue(SheetSummary, "A2")
	assert.Equal(t, "611 - Estática", v)
	v, _ = f.GetCellValue(SheetSummary, "B2")
	assert.Equal(t, "6", v)
	v, _ = f.GetCellValue(SheetSummary, "F2")
	assert.Equal(t, attendance.BandLow, v)
	v, _ = f.GetCellValue(SheetSummary, "F3")
	assert.Equal(t, attendance.BandHigh, v)

	rows, err := f.GetRows(SheetTrend)
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 captures
	assert.Equal(t, "712 - Dinámica", rows[3][0])
}

func TestWriteComparisonXLSXNil(t *testing.T) {
	assert.ErrorIs(t, WriteComparisonXLSX(&bytes.Buffer{}, nil), ErrNoData)
}

func TestRenderComparisonChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderComparisonChart(&buf, comparison()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, RenderComparisonChart(&buf, &types.Comparison{}), ErrNoData)
}

func TestRenderTrendChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTrendChart(&buf, comparison()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	single := &types.Comparison{Trend: []types.TrendPoint{{
		CourseID:   "611",
		CapturedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Rates:      types.Rates{Records: 1, Present: 1, PresentRate: 1},
	}}}
	buf.Reset()
	require.NoError(t, RenderTrendChart(&buf, single))

	assert.ErrorIs(t, RenderTrendChart(&buf, nil), ErrNoData)
}

func TestBandColor(t *testing.T) {
	assert.Equal(t, hexHigh, bandHex(attendance.BandHigh))
	assert.Equal(t, hexHigh, bandHex(attendance.BandExcellent))
	assert.Equal(t, hexMedium, bandHex(attendance.BandAcceptable))
	assert.Equal(t, hexLow, bandHex(attendance.BandRisk))
	assert.Equal(t, hexLow, bandHex(""))
}
