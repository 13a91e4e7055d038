// Command roster imports a class list PDF into the attendance spreadsheet.
//
//	roster -pdf lista.pdf            preview the worksheet it would write
//	roster -pdf lista.pdf -commit    write it (and archive the PDF when a bucket is configured)
//	roster -list                     list archived rosters
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/BladMendez/asistencia-mec-nica/internal/app"
	"github.com/BladMendez/asistencia-mec-nica/internal/config"
	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/roster"
	"github.com/BladMendez/asistencia-mec-nica/internal/tracker"
)

func init() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("[asistencia-roster] note: could not load .env file (%v); continuing with system environment", err)
	}
	log.SetPrefix("[asistencia-roster] ")
}

func main() {
	pdfPath := flag.String("pdf", "", "class list PDF to import")
	commit := flag.Bool("commit", false, "write the roster instead of previewing it")
	list := flag.Bool("list", false, "list archived roster PDFs")
	flag.Parse()

	if *pdfPath == "" && !*list {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *list {
		if err := listArchived(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("read %s: %v", *pdfPath, err)
	}
	r, err := roster.ParsePDF(data)
	if err != nil {
		log.Fatalf("parse %s: %v", *pdfPath, err)
	}

	if !*commit {
		printJSON(tracker.PreviewRoster(r))
		return
	}

	a, zl, err := build(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	defer a.Close()

	out, err := a.Tracker.ImportRoster(ctx, r, data)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	printJSON(out)
}

func build(ctx context.Context) (*app.App, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Build(ctx, cfg, zl)
	if err != nil {
		return nil, nil, err
	}
	return a, zl, nil
}

func listArchived(ctx context.Context) error {
	a, zl, err := build(ctx)
	if err != nil {
		return err
	}
	defer zl.Sync()
	defer a.Close()

	if a.Storage == nil {
		return fmt.Errorf("FIREBASE_CONFIG and STORAGE_BUCKET are required to list archived rosters")
	}
	files, err := a.Storage.List(ctx, "rosters/")
	if err != nil {
		return err
	}
	printJSON(files)
	return nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
