package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/BladMendez/asistencia-mec-nica/internal/app"
	"github.com/BladMendez/asistencia-mec-nica/internal/config"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/server"
)

func init() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("error loading .env file: %v\n", err)
	}
	log.SetPrefix("[asistencia-api] ")
}

func gracefulShutdown(apiServer *http.Server, log *logger.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// The server has 5 seconds to finish the requests it is handling.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to build service", "error", err)
	}
	defer a.Close()

	deps := server.Deps{
		Port:        cfg.Port,
		Tracker:     a.Tracker,
		AdminKey:    cfg.AdminKey,
		AuthEnabled: cfg.AuthEnabled,
		Logger:      zl,
	}
	if a.Firestore != nil {
		deps.Keys = a.Firestore
		deps.History = a.Firestore
	} else {
		deps.Keys = a.Memory
	}
	if a.Storage != nil {
		deps.Files = a.Storage
	}

	srv, err := server.New(ctx, deps)
	if err != nil {
		zl.Fatal("failed to build server", "error", err)
	}

	done := make(chan bool, 1)
	go gracefulShutdown(srv, zl, done)

	zl.Info("listening", "addr", srv.Addr, "store", cfg.StoreDriver)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	zl.Info("graceful shutdown complete")
}
