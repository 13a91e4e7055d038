// Package app builds the attendance service and its backends from the
// configuration. Both binaries start here.
package app

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/BladMendez/asistencia-mec-nica/internal/config"
	"github.com/BladMendez/asistencia-mec-nica/internal/firebase"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/server/keystore"
	"github.com/BladMendez/asistencia-mec-nica/internal/sheets"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

// App is the wired service. Firestore and Storage are nil when Firebase is
// not configured.
type App struct {
	Tracker   *tracker.Service
	Store     sheets.Store
	Firestore *firebase.Firestore
	Storage   *firebase.CloudStorage
	Memory    *keystore.Memory

	closers []io.Closer
}

// Build connects to the spreadsheet and, when configured, to Firebase and
// Redis.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{}

	base, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := sheets.NewRetrying(base, sheets.RetryPolicy{
		MaxAttempts:     cfg.RetryMaxAttempts,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
	}, log)
	a.Store = store

	var c sheets.Cache = sheets.NewMemoryCache(cfg.TableTTL, cfg.TitlesTTL)
	if cfg.RedisAddr != "" {
		rc, err := sheets.NewRedisCache(ctx, cfg.RedisAddr, cfg.TableTTL, cfg.TitlesTTL, log)
		if err != nil {
			return nil, errors.Wrap(err, "redis cache")
		}
		a.closers = append(a.closers, rc)
		c = rc
		log.Info("using redis cache", "addr", cfg.RedisAddr)
	}

	opts := tracker.Options{
		Logger:       log,
		Location:     cfg.Location,
		WeekdaysOnly: cfg.WeekdaysOnly,
	}

	if cfg.FirebaseConfig != "" {
		fbApp, err := firebase.NewApp(ctx, cfg.FirebaseConfig, cfg.StorageBucket)
		if err != nil {
			return nil, err
		}
		db, err := firebase.NewFirestore(ctx, fbApp)
		if err != nil {
			return nil, err
		}
		a.Firestore = db
		a.closers = append(a.closers, db)
		opts.Captures = db

		if cfg.StorageBucket != "" {
			cs, err := firebase.NewCloudStorage(ctx, fbApp, cfg.StorageBucket)
			if err != nil {
				return nil, err
			}
			a.Storage = cs
			opts.Archive = cs
		}
	} else {
		a.Memory = keystore.NewMemory(cfg.APIKeys, cfg.DefaultRateLimit, cfg.DefaultWindow)
	}

	a.Tracker = tracker.New(store, sheets.NewCached(store, c), opts)
	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config) (sheets.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return sheets.NewMemoryStore("memory"), nil
	}
	client, err := sheets.NewClient(ctx, cfg.SpreadsheetID, sheets.CredentialsOption(cfg.GoogleCredentials)...)
	if err != nil {
		return nil, errors.Wrap(err, "sheets client")
	}
	return client, nil
}

// Close releases the backend clients.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
