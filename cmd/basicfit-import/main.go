package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Worcesters/basicfit/internal/config"
	"github.com/Worcesters/basicfit/internal/ingest/alpha"
	"github.com/Worcesters/basicfit/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	file := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	login := flag.String("user", "", "tailnet login to import for (default: local user)")
	dryRun := flag.Bool("dry-run", false, "parse the export and report counts without writing")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: basicfit-import -config config.yaml -file export.csv [-user login] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("cannot open export", "path", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
		sessions, err := alpha.Parse(f)
		if err != nil {
			log.Error("parse failed", "error", err)
			os.Exit(1)
		}
		exercises := 0
		for _, s := range sessions {
			exercises += len(s.Exercises)
		}
		log.Info("export parsed", "sessions", len(sessions), "exercises", exercises)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, cfg.Database.MigrationsPath()); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	uid := storage.DefaultUserID
	if *login != "" {
		uid, err = db.GetOrCreateUser(ctx, *login, *login)
		if err != nil {
			log.Error("failed to resolve user", "login", *login, "error", err)
			os.Exit(1)
		}
	}

	logID, err := db.InsertImportLog(ctx, storage.ImportLog{
		UserID: uid,
		Source: storage.SourceAlpha,
		Status: storage.ImportRunning,
	})
	if err != nil {
		log.Warn("failed to open import log", "error", err)
	}

	start := time.Now()
	result, importErr := alpha.NewProvider(db, nil, log).Ingest(ctx, f, uid)
	durationMs := int(time.Since(start).Milliseconds())

	if logID != 0 {
		entry := storage.ImportLog{Status: storage.ImportSuccess, DurationMs: &durationMs}
		if result != nil {
			entry.SessionsReceived = result.SessionsReceived
			entry.SessionsInserted = result.SessionsInserted
			entry.RecordsSet = result.RecordsSet
		}
		if importErr != nil {
			msg := importErr.Error()
			entry.Status = storage.ImportError
			entry.ErrorMessage = &msg
		}
		if err := db.UpdateImportLog(ctx, logID, entry); err != nil {
			log.Warn("failed to close import log", "error", err)
		}
	}

	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}

	log.Info("import complete",
		"user_id", uid,
		"sessions_received", result.SessionsReceived,
		"sessions_inserted", result.SessionsInserted,
		"sessions_skipped", result.SessionsSkipped,
		"sets", result.SetsReceived,
		"records", result.RecordsSet,
		"duration_ms", durationMs,
	)
}
