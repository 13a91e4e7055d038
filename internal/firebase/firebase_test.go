package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDocID(t *testing.T) {
	assert.Equal(t, "611-Estática", sanitizeDocID(" 611 - Estática "))
	assert.Equal(t, "a-b", sanitizeDocID("a/b"))
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, validateUpload("rosters/611 - ESTATICA.pdf", []byte("%PDF")))
	assert.Error(t, validateUpload(" ", []byte("x")))
	assert.Error(t, validateUpload("a.pdf", nil))
	assert.Error(t, validateUpload("../a.pdf", []byte("x")))
	assert.Error(t, validateUpload("a//b.pdf", []byte("x")))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", detectContentType("rosters/x.PDF"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", detectContentType("r.xlsx"))
	assert.Equal(t, "application/octet-stream", detectContentType("noext"))
}

func TestDownloadURL(t *testing.T) {
	got := downloadURL("bucket.appspot.com", "rosters/611 - ESTATICA.pdf", "tok")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/bucket.appspot.com/o/rosters%2F611%20-%20ESTATICA.pdf?alt=media&token=tok", got)
}

func TestNewKey(t *testing.T) {
	a, err := NewKey()
	assert.NoError(t, err)
	b, _ := NewKey()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
