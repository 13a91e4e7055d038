package firebase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	goStorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// CloudStorage archives roster documents in a Firebase Storage bucket.
type CloudStorage struct {
	*storage.Client
	bucket string
}

// ArchivedFile is one stored object.
type ArchivedFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCloudStorage(ctx context.Context, app *firebase.App, bucket string) (*CloudStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}

	return &CloudStorage{
		Client: client,
		bucket: bucket,
	}, nil
}

func (s *CloudStorage) handle() (*goStorage.BucketHandle, error) {
	bucket, err := s.Bucket(s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket '%s': %w", s.bucket, err)
	}
	return bucket, nil
}

// UploadFile stores data at path and returns its Firebase download URL.
func (s *CloudStorage) UploadFile(ctx context.Context, path string, data []byte) (string, error) {
	if err := validateUpload(path, data); err != nil {
		return "", fmt.Errorf("upload validation failed: %w", err)
	}

	bucket, err := s.handle()
	if err != nil {
		return "", err
	}

	token := uuid.New().String()
	writer := bucket.Object(path).NewWriter(ctx)
	writer.ObjectAttrs.ContentType = detectContentType(path)
	writer.ObjectAttrs.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to upload file data: %w", err)
	}
	// the object only exists once the writer is closed
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return downloadURL(s.bucket, path, token), nil
}

// UploadRoster archives a roster's source document.
func (s *CloudStorage) UploadRoster(ctx context.Context, name string, data []byte) (string, error) {
	return s.UploadFile(ctx, name, data)
}

// List returns the objects stored under prefix.
func (s *CloudStorage) List(ctx context.Context, prefix string) ([]ArchivedFile, error) {
	bucket, err := s.handle()
	if err != nil {
		return nil, err
	}

	var files []ArchivedFile
	objects := bucket.Objects(ctx, &goStorage.Query{
		Prefix: prefix,
	})
	for {
		object, err := objects.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate objects: %w", err)
		}

		// Skip directories (objects ending with '/')
		if strings.HasSuffix(object.Name, "/") {
			continue
		}
		files = append(files, ArchivedFile{Name: object.Name, Size: object.Size, UpdatedAt: object.Updated})
	}
	return files, nil
}

func downloadURL(bucket, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), token)
}

// validateUpload performs input validation for file uploads
func validateUpload(path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if len(data) == 0 {
		return fmt.Errorf("file data cannot be empty")
	}

	if strings.Contains(path, "..") || strings.Contains(path, "//") {
		return fmt.Errorf("invalid file path: contains unsafe characters")
	}

	return nil
}

func detectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
