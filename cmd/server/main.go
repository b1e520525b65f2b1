package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nse-deal-tracker/internal/deals"
	"nse-deal-tracker/internal/etf"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/server"
	"nse-deal-tracker/internal/settings"
	"nse-deal-tracker/internal/store"
	"nse-deal-tracker/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := store.LoadConfig(configPath())
	must(err)
	must(logger.Init())
	must(trace.Init())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, nseClient := deals.NewFromConfig(cfg)
	etfSvc := etf.NewService(nseClient, time.Duration(cfg.ResultsTTLMinutes)*time.Minute)
	settingsStore := settings.NewStore(cfg.SettingsPath)

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}, svc, settingsStore, server.WithETFService(etfSvc))

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		must(err)
	case sig := <-sigc:
		logger.Info(ctx, "Shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "Shutdown failed", err)
	}
	_ = trace.Shutdown(shutdownCtx)
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
