package types

import "time"

// APIKey grants an instructor or a dashboard access to the API.
type APIKey struct {
	Key           string    `firestore:"key" json:"key"`
	Owner         string    `firestore:"owner" json:"owner"`
	RateLimit     int       `firestore:"rate_limit" json:"rate_limit"`
	WindowSeconds int       `firestore:"window_seconds" json:"window_seconds"`
	IsAdmin       bool      `firestore:"is_admin" json:"is_admin"`
	CreatedAt     time.Time `firestore:"created_at" json:"created_at"`
	ExpiresAt     time.Time `firestore:"expires_at" json:"expires_at"`
	LastUsedAt    time.Time `firestore:"last_used_at" json:"last_used_at"`
	UsageCount    int64     `firestore:"usage_count" json:"usage_count"`
}

// Expired reports whether a non-admin key is past its expiry. A zero expiry
// never expires.
func (k *APIKey) Expired(now time.Time) bool {
	if k.IsAdmin || k.ExpiresAt.IsZero() {
		return false
	}
	return k.ExpiresAt.Before(now)
}
