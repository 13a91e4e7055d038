package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/handlers"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/middleware"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/ratelimit"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/router"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

const (
	apiKeyCacheTTL       = 5 * time.Minute
	rateLimitCleanupTick = 1 * time.Minute
)

// KeyStore is everything the server needs from an API key backend.
// firebase.Firestore and keystore.Memory both satisfy it.
type KeyStore interface {
	middleware.KeyStore
	handlers.KeyAdmin
	EnsureAdminKey(ctx context.Context, configured string) (string, bool, error)
}

// Deps holds what the server is built from. History and Files are optional.
type Deps struct {
	Port        int
	Tracker     *tracker.Service
	Keys        KeyStore
	History     handlers.CaptureHistory
	Files       handlers.RosterFiles
	AdminKey    string
	AuthEnabled bool
	Logger      *logger.Logger
}

// New bootstraps the admin key and builds the HTTP server. The rate limiter
// cleanup runs until ctx is done.
func New(ctx context.Context, d Deps) (*http.Server, error) {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}

	adminKey, created, err := d.Keys.EnsureAdminKey(ctx, d.AdminKey)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap admin key")
	}
	if created {
		log.Info("admin key generated", "admin_key", adminKey)
	}

	limiter := ratelimit.NewLimiter()
	limiter.StartCleanup(ctx, rateLimitCleanupTick)

	mw := middleware.NewManager(d.Keys, cache.New(apiKeyCacheTTL, 10*time.Minute), limiter, adminKey, d.AuthEnabled, log)
	h := handlers.New(handlers.Deps{
		Tracker: d.Tracker,
		Keys:    d.Keys,
		History: d.History,
		Files:   d.Files,
		Logger:  log,
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", d.Port),
		Handler:      router.New(h, mw),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}
