package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/clausegest/internal/api"
	"github.com/dgallion1/clausegest/internal/config"
	"github.com/dgallion1/clausegest/internal/pathstore"
	"github.com/dgallion1/clausegest/internal/pipeline"
	"github.com/dgallion1/clausegest/internal/watch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Publishing is optional; the store stays a nil interface when it is off.
	var store pipeline.Store
	var ps *pathstore.Client
	if cfg.PublishEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey, cfg.PathstoreRPS)
		store = ps
	} else {
		log.Warn("PATHSTORE_API_KEY not set, clauses will not be published")
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, log)
	orch.Start(ctx)

	// The inbox has its own context so it can stop before the pipeline does.
	inboxCtx, stopInbox := context.WithCancel(ctx)
	defer stopInbox()
	inboxDone := make(chan struct{})

	if cfg.InboxDir != "" {
		inbox, err := watch.New(cfg.InboxDir, cfg.InboxDebounce, func(_ context.Context, path string, data []byte) {
			job := pipeline.NewJob(filepath.Base(path), "", "", data)
			if err := orch.Submit(job); err != nil {
				log.Error("inbox submit failed", "path", path, "error", err)
				return
			}
			log.Info("inbox file queued", "path", path, "job_id", job.ID)
		}, log)
		if err != nil {
			log.Error("inbox watcher", "dir", cfg.InboxDir, "error", err)
			os.Exit(1)
		}
		go func() {
			defer close(inboxDone)
			if err := inbox.Run(inboxCtx); err != nil {
				log.Error("inbox watcher stopped", "error", err)
			}
		}()
	} else {
		close(inboxDone)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: stop every producer of jobs (HTTP, inbox) before
	// the pipeline closes its queue.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		stopInbox()
		<-inboxDone

		orch.Stop()

		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting clausegest", "port", cfg.Port, "publish", cfg.PublishEnabled(), "inbox", cfg.InboxDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
	log.Info("shutdown complete")
}
