// Package report renders attendance comparisons as spreadsheets and charts
// for download.
package report

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/BladMendez/asistencia-mec-nica/internal/attendance"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("report: no data")

// Band colours.
const (
	hexHigh   = "22c55e"
	hexMedium = "f59e0b"
	hexLow    = "ef4444"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

func bandHex(band string) string {
	switch band {
	case attendance.BandHigh, attendance.BandExcellent:
		return hexHigh
	case attendance.BandMedium, attendance.BandAcceptable:
		return hexMedium
	default:
		return hexLow
	}
}

func bandColor(band string) drawing.Color {
	return drawing.ColorFromHex(bandHex(band))
}

// RenderComparisonChart draws one bar per course with its present rate as a
// percentage, coloured by band, as PNG.
func RenderComparisonChart(w io.Writer, c *types.Comparison) error {
	if c == nil || len(c.Summary) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(c.Summary))
	for _, s := range c.Summary {
		col := bandColor(s.Band)
		bars = append(bars, chart.Value{
			Label: s.CourseID,
			Value: s.PresentRate * 100,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}

	bc := chart.BarChart{
		Title:      "Asistencia por grupo (%)",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
	return errors.Wrap(bc.Render(chart.PNG, w), "render comparison chart")
}

// RenderTrendChart draws the present rate of each course over its capture
// timestamps as PNG.
func RenderTrendChart(w io.Writer, c *types.Comparison) error {
	if c == nil || len(c.Trend) == 0 {
		return ErrNoData
	}

	var (
		order []string
		xs    = make(map[string][]time.Time)
		ys    = make(map[string][]float64)
	)
	for _, p := range c.Trend {
		if _, ok := xs[p.CourseID]; !ok {
			order = append(order, p.CourseID)
		}
		xs[p.CourseID] = append(xs[p.CourseID], p.CapturedAt)
		ys[p.CourseID] = append(ys[p.CourseID], p.PresentRate*100)
	}

	series := make([]chart.Series, 0, len(order))
	for i, course := range order {
		x, y := xs[course], ys[course]
		if len(x) == 1 {
			// a lone point has no range; draw a flat segment over one hour
			x = append(x, x[0].Add(time.Hour))
			y = append(y, y[0])
		}
		series = append(series, chart.TimeSeries{
			Name:    course,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    chart.GetDefaultColor(i),
			},
		})
	}

	ch := chart.Chart{
		Title:      "Tendencia de asistencia (%)",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return errors.Wrap(ch.Render(chart.PNG, w), "render trend chart")
}
