package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/metrics"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/ratelimit"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const (
	// HeaderAPIKey carries the caller's key.
	HeaderAPIKey = "X-API-Key"
	// ContextAPIKey is the gin context key holding the *types.APIKey.
	ContextAPIKey = "api_key"
)

// KeyStore looks up API keys and records their use. ValidateAPIKey
// returns nil for unknown keys.
type KeyStore interface {
	ValidateAPIKey(ctx context.Context, key string) (*types.APIKey, error)
	UpdateKeyUsage(ctx context.Context, key string) error
}

// Manager wires all HTTP middlewares with shared dependencies.
type Manager struct {
	keys        KeyStore
	apiKeyCache *cache.Cache
	rateLimiter *ratelimit.Limiter
	adminKey    string
	authEnabled bool
	log         *logger.Logger
}

// NewManager builds a middleware manager for the HTTP server. With auth
// disabled every request runs as an anonymous, unlimited key.
func NewManager(keys KeyStore, apiKeyCache *cache.Cache, limiter *ratelimit.Limiter, adminKey string, authEnabled bool, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		keys:        keys,
		apiKeyCache: apiKeyCache,
		rateLimiter: limiter,
		adminKey:    adminKey,
		authEnabled: authEnabled,
		log:         log,
	}
}

// Auth validates API keys and decorates the context with key metadata.
func (m *Manager) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authEnabled {
			c.Set(ContextAPIKey, &types.APIKey{Owner: "anonymous", IsAdmin: true})
			c.Next()
			return
		}

		key := c.GetHeader(HeaderAPIKey)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		apiKey, err := m.lookup(c.Request.Context(), key)
		if err != nil {
			m.log.Error("api key lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		if apiKey == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		if apiKey.Expired(time.Now()) {
			m.apiKeyCache.Delete(key)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key expired"})
			return
		}

		m.updateKeyUsageAsync(key)
		c.Set(ContextAPIKey, apiKey)
		c.Next()
	}
}

func (m *Manager) lookup(ctx context.Context, key string) (*types.APIKey, error) {
	if cached, found := m.apiKeyCache.Get(key); found {
		if apiKey, ok := cached.(*types.APIKey); ok {
			return apiKey, nil
		}
		m.apiKeyCache.Delete(key)
	}

	apiKey, err := m.keys.ValidateAPIKey(ctx, key)
	if err != nil || apiKey == nil {
		return nil, err
	}
	m.apiKeyCache.Set(key, apiKey, cache.DefaultExpiration)
	return apiKey, nil
}

// RateLimit enforces per-key request limits.
func (m *Manager) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		keyData, exists := c.Get(ContextAPIKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please provide an API key"})
			return
		}

		apiKey := keyData.(*types.APIKey)
		if !m.rateLimiter.Allow(apiKey.Key, apiKey.RateLimit, apiKey.WindowSeconds) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// Admin restricts routes to the admin key.
func (m *Manager) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authEnabled {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderAPIKey)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if key != m.adminKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}

// Logger logs one line per request once it has been served.
func (m *Manager) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"route", route(c),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			m.log.Error("request", kv...)
		case status >= http.StatusBadRequest:
			m.log.Warn("request", kv...)
		default:
			m.log.Info("request", kv...)
		}
	}
}

// Metrics counts requests and observes their latency per route.
func (m *Manager) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r := route(c)
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}

// route is the matched route pattern, keeping label cardinality bounded.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

func (m *Manager) updateKeyUsageAsync(key string) {
	if key == "" {
		return
	}

	go func(k string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.keys.UpdateKeyUsage(ctx, k); err != nil {
			m.log.Debug("key usage update failed", "error", err)
		}
	}(key)
}
