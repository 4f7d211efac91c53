// Command fullsync backfills every time entry from the configured start date
// through today, then exits. Useful for seeding a fresh database before the
// server's scheduled syncs take over.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JosephStocks/toggl-entry-annotator/internal/entry"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/config"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/database"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/logger"
	syncsvc "github.com/JosephStocks/toggl-entry-annotator/internal/sync"
	"github.com/JosephStocks/toggl-entry-annotator/internal/toggl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "error", err.Error())
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Error("database migrate failed", "error", err.Error())
		os.Exit(1)
	}

	togglClient := toggl.New(cfg.TogglToken, cfg.WorkspaceID, log)
	svc := syncsvc.NewService(togglClient, entry.NewPostgres(pool), cfg.SyncStartDate, cfg.SyncLookbackDays, log, nil)

	count, err := svc.Full(ctx)
	if err != nil {
		log.Error("full sync failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("full sync complete", "records", count, "start_date", cfg.SyncStartDate.Format("2006-01-02"))
}
