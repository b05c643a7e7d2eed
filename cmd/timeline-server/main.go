package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/timeline/internal/config"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/seed"
	"github.com/existflow/timeline/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// PORT is honoured for hosting platforms that set it
	addr := cfg.ServerAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	logCfg := cfg.Logger()
	logCfg.Console = true
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			log.Printf("Error closing logger: %v", err)
		}
	}()

	session := ledger.NewSession(ledger.WithSortMode(cfg.Sort()))
	if err := seed.Populate(session, cfg.SeedFile); err != nil {
		log.Fatalf("Failed to load timeline: %v", err)
	}

	srv := server.New(session)
	go func() {
		logger.Info("Timeline server starting", logger.F("addr", addr))
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", logger.F("error", err))
	}
	logger.Info("Timeline server stopped")
}
