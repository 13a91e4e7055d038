package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/firebase"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/report"
	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/sheets"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// KeyAdmin provisions and inspects API keys.
type KeyAdmin interface {
	GenerateAPIKey(ctx context.Context, owner string, rateLimit, windowSeconds int, isAdmin bool, expiresAt time.Time) (string, error)
	ValidateAPIKey(ctx context.Context, key string) (*types.APIKey, error)
}

// CaptureHistory lists past captures of a course, newest first.
type CaptureHistory interface {
	RecentCaptures(ctx context.Context, course string, limit int) ([]types.CaptureResult, error)
}

// RosterFiles lists archived roster documents.
type RosterFiles interface {
	List(ctx context.Context, prefix string) ([]firebase.ArchivedFile, error)
}

// Deps are the handler collaborators. History and Files are optional.
type Deps struct {
	Tracker *tracker.Service
	Keys    KeyAdmin
	History CaptureHistory
	Files   RosterFiles
	Logger  *logger.Logger
}

type Handler struct {
	svc     *tracker.Service
	keys    KeyAdmin
	history CaptureHistory
	files   RosterFiles
	log     *logger.Logger
}

func New(d Deps) *Handler {
	h := &Handler{
		svc:     d.Tracker,
		keys:    d.Keys,
		history: d.History,
		files:   d.Files,
		log:     d.Logger,
	}
	if h.log == nil {
		h.log = logger.Nop()
	}
	return h
}

// Health responds with a simple service heartbeat.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "attendance API is running",
	})
}

// CreateAPIKey provisions a new API key.
func (h *Handler) CreateAPIKey(c *gin.Context) {
	var req struct {
		Owner         string `json:"owner" binding:"required"`
		RateLimit     int    `json:"rate_limit" binding:"required"`
		WindowSeconds int    `json:"window_seconds" binding:"required"`
		IsAdmin       bool   `json:"is_admin"`
		ExpiresAt     string `json:"expires_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RateLimit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate limit must be greater than 0"})
		return
	}

	if req.WindowSeconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window seconds must be greater than 0"})
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != "" {
		var err error
		expiresAt, err = time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_at format"})
			return
		}

		if expiresAt.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiration date must be in the future"})
			return
		}
	}

	key, err := h.keys.GenerateAPIKey(
		c.Request.Context(),
		strings.TrimSpace(req.Owner),
		req.RateLimit,
		req.WindowSeconds,
		req.IsAdmin,
		expiresAt,
	)
	if err != nil {
		h.log.Error("create api key failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create API key"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// GetAPIKey retrieves metadata for a stored API key.
func (h *Handler) GetAPIKey(c *gin.Context) {
	apiKey, err := h.keys.ValidateAPIKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.log.Error("get api key failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get API key"})
		return
	}
	if apiKey == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	c.JSON(http.StatusOK, apiKey)
}

// statusOf maps service errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, tracker.ErrInvalidUnit):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrUnknownCourse), errors.Is(err, tracker.ErrUnknownStudent):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrNotSchoolDay), errors.Is(err, tracker.ErrNoSessionToday):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrNoStudents),
		errors.Is(err, tracker.ErrMissingIdentity),
		errors.Is(err, tracker.ErrIncompleteRoster),
		errors.Is(err, roster.ErrEmptyDocument),
		errors.Is(err, report.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sheets.ErrRateLimited), errors.Is(err, sheets.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Server-side failures are logged and
// their detail withheld.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
		_ = c.Error(err)
	}

	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		if errors.Is(err, sheets.ErrRateLimited) {
			c.Header("Retry-After", "30")
		}
		msg = "spreadsheet temporarily unavailable"
	case http.StatusInternalServerError:
		msg = "server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// queryList collects a repeatable query parameter, also accepting comma
// separated values when split is set.
func queryList(c *gin.Context, name string, split bool) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		parts := []string{v}
		if split {
			parts = strings.Split(v, ",")
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseLimit(c *gin.Context) (int, error) {
	value := strings.TrimSpace(c.Query("limit"))
	if value == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit parameter must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
