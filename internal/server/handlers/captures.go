package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

type captureRequest struct {
	Unit    string   `json:"unit" binding:"required"`
	Present []string `json:"present"`
	Tardy   []string `json:"tardy"`
}

// Capture records today's session of a unit. Students listed in neither
// present nor tardy are marked absent.
func (h *Handler) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Capture(c.Request.Context(), tracker.CaptureRequest{
		Course:  c.Param("course"),
		Unit:    req.Unit,
		Present: req.Present,
		Tardy:   req.Tardy,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// RecentCaptures lists the latest captures of a course from the capture log.
func (h *Handler) RecentCaptures(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "capture history is not configured"})
		return
	}

	limit, err := parseLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course := c.Param("course")
	captures, err := h.history.RecentCaptures(c.Request.Context(), course, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course_id": course, "captures": captures, "count": len(captures)})
}

// PendingTardies lists today's absentees of the latest session of ?unit=.
func (h *Handler) PendingTardies(c *gin.Context) {
	unit := c.Query("unit")
	if unit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit query parameter is required (e.g., ?unit=2)"})
		return
	}

	session, err := h.svc.PendingTardies(c.Request.Context(), c.Param("course"), unit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CorrectTardies turns the listed absentees into tardies.
func (h *Handler) CorrectTardies(c *gin.Context) {
	var req struct {
		Unit     string   `json:"unit" binding:"required"`
		Students []string `json:"students" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.svc.CorrectTardies(c.Request.Context(), c.Param("course"), req.Unit, req.Students)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
