package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JosephStocks/toggl-entry-annotator/internal/entry"
	entryhandler "github.com/JosephStocks/toggl-entry-annotator/internal/entry/handler"
	"github.com/JosephStocks/toggl-entry-annotator/internal/journal"
	journalhandler "github.com/JosephStocks/toggl-entry-annotator/internal/journal/handler"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/config"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/database"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/httpserver"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/logger"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/metrics"
	"github.com/JosephStocks/toggl-entry-annotator/internal/platform/middleware"
	syncsvc "github.com/JosephStocks/toggl-entry-annotator/internal/sync"
	synchandler "github.com/JosephStocks/toggl-entry-annotator/internal/sync/handler"
	"github.com/JosephStocks/toggl-entry-annotator/internal/toggl"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal services packages.
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

	m := metrics.New()

	entryStore := entry.NewPostgres(pool)
	entrySvc := entry.NewService(entryStore, cfg.CutoffHour, cfg.Location())

	journalSvc := journal.NewService(journal.NewPostgres(pool))

	togglClient := toggl.New(cfg.TogglToken, cfg.WorkspaceID, log)
	syncService := syncsvc.NewService(togglClient, entryStore, cfg.SyncStartDate, cfg.SyncLookbackDays, log, m)

	scheduler, err := syncsvc.NewScheduler(syncService, cfg.SyncCron, log)
	if err != nil {
		log.Error("invalid sync cron spec", "spec", cfg.SyncCron, "error", err.Error())
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS)
	router.Use(middleware.Latency(m))
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	entryhandler.New(entrySvc, log, m).Register(router)
	journalhandler.New(journalSvc, log, m).Register(router)

	// Sync triggers sit behind the Cloudflare Access service token.
	router.Group(func(r chi.Router) {
		r.Use(middleware.ServiceToken(middleware.ServiceTokenConfig{
			ClientID:     cfg.CFAccessClientID,
			ClientSecret: cfg.CFAccessClientSecret,
			Enabled:      cfg.CFCheck,
		}, log))
		synchandler.New(syncService, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "cutoff_hour", cfg.CutoffHour, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
}
