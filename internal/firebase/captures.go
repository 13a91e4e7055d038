package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const capturesCollection = "captures"

// capture documents live under courses/{course}/captures/{id}
func (c *Firestore) captures(course string) *firestore.CollectionRef {
	return c.Collection("courses").Doc(sanitizeDocID(course)).Collection(capturesCollection)
}

// RecordCapture stores a capture result keyed by its ID.
func (c *Firestore) RecordCapture(ctx context.Context, capture types.CaptureResult) error {
	if capture.ID == "" {
		return fmt.Errorf("capture id is required")
	}
	_, err := c.captures(capture.CourseID).Doc(capture.ID).Set(ctx, capture)
	if err != nil {
		return fmt.Errorf("failed to store capture %s: %w", capture.ID, err)
	}
	return nil
}

// RecentCaptures returns up to limit captures of a course, newest first.
func (c *Firestore) RecentCaptures(ctx context.Context, course string, limit int) ([]types.CaptureResult, error) {
	iter := c.captures(course).
		OrderBy("captured_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	out := []types.CaptureResult{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate captures: %w", err)
		}

		var capture types.CaptureResult
		if err := doc.DataTo(&capture); err != nil {
			return nil, err
		}
		out = append(out, capture)
	}
	return out, nil
}
