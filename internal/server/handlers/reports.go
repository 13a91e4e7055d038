package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BladMendez/asistencia-mec-nica/internal/report"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePNG  = "image/png"
)

// Comparison compares courses side by side.
// Query parameters (all optional, repeatable):
//   - course: worksheet title; all courses when absent
//   - unit: unit label or number, comma separated values accepted; all units when absent
//   - format: json (default), xlsx or png
//   - chart: bars (default) or trend, for format=png
func (h *Handler) Comparison(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))
	chart := strings.ToLower(strings.TrimSpace(c.DefaultQuery("chart", "bars")))
	if format != "json" && format != "xlsx" && format != "png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, xlsx or png"})
		return
	}
	if chart != "bars" && chart != "trend" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chart must be bars or trend"})
		return
	}

	cmp, err := h.svc.Compare(c.Request.Context(), tracker.ComparisonQuery{
		Courses: queryList(c, "course", false),
		Units:   queryList(c, "unit", true),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		c.JSON(http.StatusOK, cmp)
		return
	case "xlsx":
		if err := report.WriteComparisonXLSX(&buf, cmp); err != nil {
			h.fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="comparativo.xlsx"`)
		c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
	case "png":
		render := report.RenderComparisonChart
		if chart == "trend" {
			render = report.RenderTrendChart
		}
		if err := render(&buf, cmp); err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, contentTypePNG, buf.Bytes())
	}
}
