package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinfoposte/unwomen-jobs/app/api"
	"github.com/cinfoposte/unwomen-jobs/app/cfg"
	"github.com/cinfoposte/unwomen-jobs/app/collector"
	"github.com/cinfoposte/unwomen-jobs/app/feed"
	"github.com/cinfoposte/unwomen-jobs/app/grade"
	"github.com/cinfoposte/unwomen-jobs/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was requested
		return
	}

	setupLogger(c.Debug)

	slog.Info("Starting unwomen-jobs", "version", cfg.GetVersion(), "portal", c.PortalURL, "feed", c.FeedPath)

	rules, err := grade.LoadRules(c.RulesFile)
	if err != nil {
		slog.Error("Failed to load filter rules", "file", c.RulesFile, "error", err)
		os.Exit(1)
	}

	classifier, err := grade.NewClassifier(rules)
	if err != nil {
		slog.Error("Failed to build grade classifier", "error", err)
		os.Exit(1)
	}

	fetcher, err := collector.NewBrowserFetcher()
	if err != nil {
		slog.Error("Failed to start browser", "error", err)
		os.Exit(1)
	}
	defer fetcher.Close()

	jobCollector := collector.New(fetcher, classifier)
	store := feed.NewStore(c.FeedPath)
	status := tasks.NewStatusTracker()

	newTask := func() tasks.TaskInterface {
		return tasks.NewRefreshFeedTask(jobCollector, store, status)
	}

	if c.Schedule == "" {
		runOnce(newTask(), status)
		return
	}

	runScheduled(c, newTask, store, status)
}

// runOnce executes a single refresh and exits non-zero on failure, so a
// CI job or systemd timer driving the scraper sees the outcome.
func runOnce(task tasks.TaskInterface, status *tasks.StatusTracker) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Refresh failed", "error", err)
		os.Exit(1)
	}

	st := status.Get()
	slog.Info("Refresh complete", "new", st.ItemsAdded, "total", st.FeedItems)
}

func runScheduled(c *cfg.Cfg, newTask func() tasks.TaskInterface, store *feed.Store, status *tasks.StatusTracker) {
	scheduler := tasks.NewScheduler(c.Schedule, newTask)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	serverErrChan := make(chan error, 1)
	var httpServer *http.Server

	if c.Port != "" {
		handler := api.NewHandler(store, status)
		httpServer = &http.Server{
			Addr:         ":" + c.Port,
			Handler:      api.NewServer(handler),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("HTTP server listening", "port", c.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error, shutting down", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
