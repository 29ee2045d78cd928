package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"cellxplore/internal"
	"cellxplore/internal/config"
	"cellxplore/internal/container"
	"cellxplore/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	// Load the dataset up front. A failed initial load is not fatal: the
	// server starts and reports 503 until a later /refresh succeeds.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.FetchTimeout)
	if _, err := c.Cache.Load(ctx); err != nil {
		logger.Warn("initial dataset load failed, starting without data: %v", err)
	}
	cancel()

	if cfg.Profiling.Enabled {
		go func() {
			addr := ":" + cfg.Profiling.Port
			logger.Info("ops server listening on %s", addr)
			server := &http.Server{
				Addr:              addr,
				Handler:           ui.NewOpsRouter(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			if err := server.ListenAndServe(); err != nil {
				logger.Error("ops server stopped: %v", err)
			}
		}()
	}

	server := ui.NewServer(cfg, c.Explorer)
	logger.Info("explorer API listening on :%s", cfg.Server.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
