package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/BladMendez/asistencia-mec-nica/internal/report"
	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/sheets"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(tracker.ErrInvalidUnit, "x"), http.StatusBadRequest},
		{errors.Wrapf(tracker.ErrUnknownCourse, "%q", "c"), http.StatusNotFound},
		{tracker.ErrUnknownStudent, http.StatusNotFound},
		{tracker.ErrNotSchoolDay, http.StatusConflict},
		{tracker.ErrNoSessionToday, http.StatusConflict},
		{tracker.ErrNoStudents, http.StatusUnprocessableEntity},
		{tracker.ErrMissingIdentity, http.StatusUnprocessableEntity},
		{tracker.ErrIncompleteRoster, http.StatusUnprocessableEntity},
		{roster.ErrEmptyDocument, http.StatusUnprocessableEntity},
		{report.ErrNoData, http.StatusUnprocessableEntity},
		{&sheets.Error{Op: sheets.OpReadTable, RateLimited: true}, http.StatusServiceUnavailable},
		{errors.Wrap(&sheets.Error{Op: sheets.OpWriteCells, Err: errors.New("boom")}, "write marks"), http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestQueryList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?unit=1,%202&unit=Tutor%C3%ADa&course=A,%20B&course=", nil)

	assert.Equal(t, []string{"1", "2", "Tutoría"}, queryList(c, "unit", true))
	assert.Equal(t, []string{"A, B"}, queryList(c, "course", false))
	assert.Nil(t, queryList(c, "missing", true))
}

func TestParseLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string]int{"": defaultLimit, "?limit=5": 5, "?limit=1000": maxLimit} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+query, nil)
		got, err := parseLimit(c)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=-2", nil)
	_, err := parseLimit(c)
	assert.Error(t, err)
}
