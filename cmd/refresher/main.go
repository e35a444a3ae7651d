package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/wparames/honeymart/internal/config"
	"github.com/wparames/honeymart/internal/database"
	"github.com/wparames/honeymart/internal/events"
	"github.com/wparames/honeymart/internal/genai"
	"github.com/wparames/honeymart/internal/journal"
	"github.com/wparames/honeymart/internal/lock"
	"github.com/wparames/honeymart/internal/refresher"
	"github.com/wparames/honeymart/pkg/logger"
)

// The refresher is a separate long-lived process: it wipes and regenerates
// the whole dataset every cycle, coordinating with the web server through
// the shared Redis write lock.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	generator, err := genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerateTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	writeLock, err := lock.NewRedisLock(cfg.RedisURL, 30*time.Second)
	if err != nil {
		log.Fatalf("Failed to initialize write lock: %v", err)
	}
	defer writeLock.Close()

	jrnl, err := journal.New(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to open refresh journal: %v", err)
	}
	defer jrnl.Close()

	eventBus, err := events.NewRedisBus(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	defer eventBus.Close()

	// Stop between phases on SIGINT/SIGTERM, never mid-delete
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := refresher.New(database.DB, generator, writeLock, jrnl, eventBus, cfg.RefreshInterval)
	r.Run(ctx)
}
