package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const maxRosterBytes = 10 << 20

// UploadRoster parses a class list PDF sent as the multipart field "file".
// Without commit=true it only previews the worksheet it would write.
func (h *Handler) UploadRoster(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRosterBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a PDF is required in the file field"})
		return
	}
	if fh.Size > maxRosterBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds 10 MiB"})
		return
	}

	commit := false
	if v := c.PostForm("commit"); v != "" {
		if commit, err = strconv.ParseBool(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "commit must be a boolean"})
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxRosterBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	r, err := roster.ParsePDF(data)
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not a readable PDF"})
			return
		}
		h.fail(c, err)
		return
	}

	var out *types.RosterImport
	if commit {
		out, err = h.svc.ImportRoster(c.Request.Context(), r, data)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
		return
	}

	out = tracker.PreviewRoster(r)
	c.JSON(http.StatusOK, out)
}

// ListArchivedRosters lists the archived roster PDFs.
func (h *Handler) ListArchivedRosters(c *gin.Context) {
	if h.files == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "roster archive is not configured"})
		return
	}

	files, err := h.files.List(c.Request.Context(), "rosters/")
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}
