// Package keystore holds API keys in memory for deployments without
// Firestore. Keys are lost on restart unless listed in the configuration.
package keystore

import (
	"context"
	"sync"
	"time"

	"github.com/BladMendez/asistencia-mec-nica/internal/firebase"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const adminPrefix = "admin-"

// Memory implements the same key operations as firebase.Firestore.
type Memory struct {
	mu   sync.RWMutex
	keys map[string]*types.APIKey
	now  func() time.Time
}

// NewMemory seeds the store with static keys sharing one rate limit.
func NewMemory(static []string, rateLimit, windowSeconds int) *Memory {
	m := &Memory{keys: make(map[string]*types.APIKey), now: time.Now}
	for _, k := range static {
		m.keys[k] = &types.APIKey{
			Key:           k,
			Owner:         "static",
			RateLimit:     rateLimit,
			WindowSeconds: windowSeconds,
			CreatedAt:     m.now(),
		}
	}
	return m
}

func (m *Memory) GenerateAPIKey(
	_ context.Context,
	owner string,
	rateLimit int,
	windowSeconds int,
	isAdmin bool,
	expiresAt time.Time,
) (string, error) {
	key, err := firebase.NewKey()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = &types.APIKey{
		Key:           key,
		Owner:         owner,
		RateLimit:     rateLimit,
		WindowSeconds: windowSeconds,
		IsAdmin:       isAdmin,
		CreatedAt:     m.now(),
		ExpiresAt:     expiresAt,
	}
	return key, nil
}

// ValidateAPIKey returns a copy of the key's metadata, or nil when unknown.
func (m *Memory) ValidateAPIKey(_ context.Context, key string) (*types.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.keys[key]
	if !ok {
		return nil, nil
	}
	out := *k
	return &out, nil
}

func (m *Memory) UpdateKeyUsage(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if k, ok := m.keys[key]; ok {
		k.UsageCount++
		k.LastUsedAt = m.now()
	}
	return nil
}

// EnsureAdminKey registers the configured admin key, or generates one when
// none is configured and none exists yet.
func (m *Memory) EnsureAdminKey(_ context.Context, configured string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := false
	if configured == "" {
		for k, v := range m.keys {
			if v.IsAdmin && v.Owner == "admin" {
				return k, false, nil
			}
		}
		base, err := firebase.NewKey()
		if err != nil {
			return "", false, err
		}
		configured = adminPrefix + base
		created = true
	}

	m.keys[configured] = &types.APIKey{
		Key:       configured,
		Owner:     "admin",
		IsAdmin:   true,
		CreatedAt: m.now(),
	}
	return configured, created, nil
}
