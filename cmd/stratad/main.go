// Command stratad serves outline extraction over HTTP.
//
// POST /v1/outline accepts a multipart upload (field "file") or a raw
// body with a ?filename= hint and responds with the outline JSON; the
// X-Strata-Conditions header names any recoverable conditions. GET
// /healthz reports liveness. Set server.api_key (or STRATA_API_KEY)
// to require a bearer token on /v1 routes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strucdoc/strata/internal/api"
	"github.com/strucdoc/strata/internal/config"
	"github.com/strucdoc/strata/trace"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "stratad:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	var store *trace.Store
	if cfg.Trace.Path != "" {
		db, err := trace.Open(cfg.Trace.Path)
		if err != nil {
			log.Error("open trace store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = trace.NewStore(db)
		if err := store.Init(); err != nil {
			log.Error("init trace store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	srv := api.NewServer(cfg, log, store)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting stratad", "addr", cfg.Server.Addr, "auth", cfg.Server.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
