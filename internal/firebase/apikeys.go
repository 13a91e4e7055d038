package firebase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const (
	apiKeysCollection = "api_keys"
	// reserved doc holding the admin key
	adminKeyDocID  = "admin"
	adminKeyPrefix = "admin-"
)

// NewKey returns a random 32 hex character key.
func NewKey() (string, error) {
	keyBytes := make([]byte, 16)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(keyBytes), nil
}

func (c *Firestore) GenerateAPIKey(
	ctx context.Context,
	owner string,
	rateLimit int,
	windowSeconds int,
	isAdmin bool,
	expiresAt time.Time,
) (string, error) {
	key, err := NewKey()
	if err != nil {
		return "", err
	}

	apiKey := types.APIKey{
		Key:           key,
		Owner:         owner,
		RateLimit:     rateLimit,
		WindowSeconds: windowSeconds,
		IsAdmin:       isAdmin,
		CreatedAt:     time.Now(),
		ExpiresAt:     expiresAt,
	}

	_, err = c.Collection(apiKeysCollection).Doc(key).Set(ctx, apiKey)
	return key, err
}

// ValidateAPIKey returns the key's metadata, or nil when the key does not
// exist. Expiry is checked by the caller.
func (c *Firestore) ValidateAPIKey(ctx context.Context, key string) (*types.APIKey, error) {
	apiKey, err := c.GetAPIKey(ctx, key)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	return apiKey, err
}

// UpdateKeyUsage updates last used and usage count
func (c *Firestore) UpdateKeyUsage(ctx context.Context, key string) error {
	_, err := c.Collection(apiKeysCollection).Doc(key).Update(ctx, []firestore.Update{
		{Path: "usage_count", Value: firestore.Increment(1)},
		{Path: "last_used_at", Value: firestore.ServerTimestamp},
	})
	return err
}

func (c *Firestore) GetAPIKey(ctx context.Context, key string) (*types.APIKey, error) {
	doc, err := c.Collection(apiKeysCollection).Doc(key).Get(ctx)
	if err != nil {
		return nil, err
	}

	var apiKey types.APIKey
	if err := doc.DataTo(&apiKey); err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// EnsureAdminKey returns the admin key, creating it on first start. A
// configured key takes precedence and is stored so that the auth lookup
// finds it.
func (c *Firestore) EnsureAdminKey(ctx context.Context, configured string) (key string, created bool, err error) {
	ref := c.Collection(apiKeysCollection).Doc(adminKeyDocID)
	if configured == "" {
		doc, err := ref.Get(ctx)
		switch {
		case err == nil:
			var stored struct {
				Key string `firestore:"key"`
			}
			if err := doc.DataTo(&stored); err == nil && stored.Key != "" {
				return stored.Key, false, nil
			}
		case status.Code(err) != codes.NotFound:
			return "", false, fmt.Errorf("failed to read admin key: %w", err)
		}

		base, err := NewKey()
		if err != nil {
			return "", false, err
		}
		configured = adminKeyPrefix + base
		created = true
	}

	adminKey := types.APIKey{
		Key:       configured,
		Owner:     "admin",
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}
	if _, err := c.Collection(apiKeysCollection).Doc(configured).Set(ctx, adminKey); err != nil {
		return "", false, fmt.Errorf("failed to store admin key: %w", err)
	}
	if _, err := ref.Set(ctx, map[string]interface{}{
		"key":        configured,
		"is_admin":   true,
		"created_at": time.Now(),
	}); err != nil {
		return "", false, fmt.Errorf("failed to store admin key: %w", err)
	}
	return configured, created, nil
}
