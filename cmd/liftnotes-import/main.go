package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/liftnotes/internal/config"
	"github.com/claude/liftnotes/internal/ingest"
	ingestnotation "github.com/claude/liftnotes/internal/ingest/notation"
	"github.com/claude/liftnotes/internal/notation"
	"github.com/claude/liftnotes/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to workout log file (required)")
	userID := flag.Int("user-id", 1, "user to import the log for")
	dryRun := flag.Bool("dry-run", false, "parse and print sessions as JSON without touching the database")
	canonical := flag.Bool("canonical", false, "with -dry-run, print the log in canonical notation instead of JSON")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftnotes-import -config config.yaml -file training.txt [-dry-run [-canonical]]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	body, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read log file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	if *dryRun {
		if err := printParsed(body, *canonical); err != nil {
			log.Error("failed to print sessions", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	logID, logErr := db.InsertImportLog(ctx, storage.ImportLog{UserID: *userID, Source: "cli", Status: "running"})
	if logErr != nil {
		log.Warn("failed to create import log", "error", logErr)
	}

	start := time.Now()
	result, err := ingestnotation.NewProvider(db, log).Ingest(ctx, bytes.NewReader(body), *userID)
	if logErr == nil {
		entry := storage.ImportLogFor(*userID, "cli", result, err, int(time.Since(start).Milliseconds()))
		if uerr := db.UpdateImportLog(ctx, logID, entry); uerr != nil {
			log.Warn("failed to update import log", "error", uerr)
		}
	}
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	printResult(log, result)
	log.Info("import complete")
}

func printParsed(body []byte, canonical bool) error {
	sessions := notation.Parse(string(body))
	if canonical {
		_, err := fmt.Print(notation.Format(sessions))
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sessions)
}

func printResult(log *slog.Logger, result *ingest.Result) {
	log.Info("import stats",
		"document_id", result.DocumentID,
		"unchanged", result.Unchanged,
		"sessions", result.SessionsReceived,
		"exercises", result.ExercisesReceived,
		"sets", result.SetsReceived,
		"efforts_received", result.EffortsReceived,
		"efforts_inserted", result.EffortsInserted,
	)
}
