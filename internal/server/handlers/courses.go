package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCourses lists the course worksheets.
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.svc.Courses(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if courses == nil {
		courses = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses, "count": len(courses)})
}

// GetCourse describes one course: roster size, units and sessions.
func (h *Handler) GetCourse(c *gin.Context) {
	course, err := h.svc.Course(c.Request.Context(), c.Param("course"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CourseReport returns per-unit and per-student rates of a course.
func (h *Handler) CourseReport(c *gin.Context) {
	rep, err := h.svc.CourseReport(c.Request.Context(), c.Param("course"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

// StudentReport returns one student's attendance per unit.
func (h *Handler) StudentReport(c *gin.Context) {
	rep, err := h.svc.StudentReport(c.Request.Context(), c.Param("course"), c.Param("student"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
