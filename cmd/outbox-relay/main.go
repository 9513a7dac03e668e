package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/campus_cafeteria/internal/config"
	"github.com/Skotchmaster/campus_cafeteria/internal/outbox"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	pkgdb "github.com/Skotchmaster/campus_cafeteria/pkg/db"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.LoadRelay()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-relay")
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	store := &repo.GormRepo{DB: db}
	err = store.Migrate(openCtx)
	cancel()
	if err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	pub, err := outbox.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("outbox publisher: %v", err)
	}
	relay := outbox.NewRelay(store, pub, cfg.OutboxPollInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	var wg sync.WaitGroup
	if pkgdb.IsPostgres(db) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := outbox.Listen(ctx, cfg.DatabaseURL, repo.OutboxChannel, relay); err != nil {
				logger.Warn("listener_stopped", "error", err)
			}
		}()
	}

	if err := relay.Run(ctx); err != nil {
		logger.Error("relay_stopped", "error", err)
	}
	wg.Wait()

	_ = pub.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("outbox relay stopped")
}
