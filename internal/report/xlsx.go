package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Worksheet names of the comparison workbook.
const (
	SheetSummary = "Resumen"
	SheetTrend   = "Tendencia"
)

// excelize built-in number format "0.00%"
const percentFormat = 10

var (
	summaryHeader = []interface{}{"Grupo", "Registros", "Asistencia", "Retardos", "Faltas", "Nivel"}
	trendHeader   = []interface{}{"Grupo", "Fecha", "Registros", "Asistencia", "Retardos", "Faltas"}
)

// WriteComparisonXLSX writes the comparison as a workbook with a summary
// sheet, one row per course, and a trend sheet, one row per capture.
func WriteComparisonXLSX(w io.Writer, c *types.Comparison) error {
	if c == nil {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(SheetTrend); err != nil {
		return errors.Wrap(err, "new sheet")
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: percentFormat})
	if err != nil {
		return err
	}
	dates, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("dd/mm/yyyy hh:mm")})
	if err != nil {
		return err
	}
	bands := make(map[string]int)
	for _, band := range []string{attendance.BandHigh, attendance.BandMedium, attendance.BandLow} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + bandHex(band)}},
		})
		if err != nil {
			return err
		}
		bands[band] = id
	}

	if err := writeRow(f, SheetSummary, 1, summaryHeader); err != nil {
		return err
	}
	for i, s := range c.Summary {
		row := i + 2
		if err := writeRow(f, SheetSummary, row, []interface{}{
			s.CourseID, s.Records, s.PresentRate, s.TardyRate, s.AbsentRate, s.Band,
		}); err != nil {
			return err
		}
		if err := styleRange(f, SheetSummary, 3, row, 5, row, percent); err != nil {
			return err
		}
		if id, ok := bands[s.Band]; ok {
			if err := styleRange(f, SheetSummary, 6, row, 6, row, id); err != nil {
				return err
			}
		}
	}

	if err := writeRow(f, SheetTrend, 1, trendHeader); err != nil {
		return err
	}
	for i, p := range c.Trend {
		row := i + 2
		if err := writeRow(f, SheetTrend, row, []interface{}{
			p.CourseID, p.CapturedAt, p.Records, p.PresentRate, p.TardyRate, p.AbsentRate,
		}); err != nil {
			return err
		}
		if err := styleRange(f, SheetTrend, 2, row, 2, row, dates); err != nil {
			return err
		}
		if err := styleRange(f, SheetTrend, 4, row, 6, row, percent); err != nil {
			return err
		}
	}

	for _, sheet := range []string{SheetSummary, SheetTrend} {
		if err := styleRange(f, sheet, 1, 1, 6, 1, header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "F", 14); err != nil {
			return err
		}
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, c1, r1, c2, r2, style int) error {
	from, err := excelize.CoordinatesToCellName(c1, r1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(c2, r2)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func strPtr(s string) *string { return &s }
