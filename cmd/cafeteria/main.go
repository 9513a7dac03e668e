package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/campus_cafeteria/internal/config"
	"github.com/Skotchmaster/campus_cafeteria/internal/es"
	"github.com/Skotchmaster/campus_cafeteria/internal/httpserver"
	"github.com/Skotchmaster/campus_cafeteria/internal/middleware/csrf"
	"github.com/Skotchmaster/campus_cafeteria/internal/outbox"
	"github.com/Skotchmaster/campus_cafeteria/internal/paystore"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/service"
	"github.com/Skotchmaster/campus_cafeteria/internal/sms"
	"github.com/Skotchmaster/campus_cafeteria/internal/validation"
	pkgdb "github.com/Skotchmaster/campus_cafeteria/pkg/db"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
	loggingmw "github.com/Skotchmaster/campus_cafeteria/pkg/middleware/logging"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	store := &repo.GormRepo{DB: db}
	err = store.Migrate(ctx)
	cancel()
	if err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var intents paystore.Store = paystore.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := paystore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		intents = rs
	}

	inventory := &service.InventoryService{Repo: store}
	if cfg.SearchEnabled() {
		client, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
		} else {
			inventory.Index = es.NewMenuIndex(client)
			go func() {
				n, err := inventory.Reindex(logging.IntoContext(context.Background(), logger))
				if err != nil {
					logger.Warn("es_reindex_error", "error", err)
					return
				}
				logger.Info("es_reindex_success", "items", n)
			}()
		}
	}

	orders := &service.OrderService{Repo: store}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = strings.HasPrefix(cfg.PublicBaseURL, "https://")

	e := echo.New()
	e.Validator = &validation.EchoValidator{V: validation.New()}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, "/health"))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Shop: &httpserver.ShopHTTP{
			Users:         &service.UserService{Repo: store, ResetSecret: tokens.DeriveKey(cfg.JWTAccessSecret, tokens.PurposePasswordReset)},
			Orders:        orders,
			Inventory:     inventory,
			JWTSecret:     cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
		},
		Payments: &httpserver.PaymentHTTP{
			Payments:  &service.PaymentService{Repo: store, Orders: orders, Intents: intents, TTL: paystore.DefaultTTL},
			Inventory: inventory,
			Receipts:  &service.ReceiptService{Repo: store},
		},
		SMS: &httpserver.SMSHTTP{Svc: &service.SMSService{Repo: store, Senders: sms.NewAllowList(cfg.SMSAllowedSenders)}},
		Transactions: &httpserver.TransactionHTTP{
			Svc:       &service.TransactionService{Repo: store},
			LoginPath: httpserver.ManagerLoginPath,
		},
		Dashboard: &httpserver.DashboardHTTP{Inventory: inventory},
		Managers: &httpserver.ManagerHTTP{
			Svc:           &service.ManagerService{Repo: store},
			JWTSecret:     cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
		},
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		CSRF:          csrfCfg,
		Ready:         store.Ping,
	})

	relayCtx, stopRelay := context.WithCancel(logging.IntoContext(context.Background(), logger))
	var wg sync.WaitGroup
	var pub outbox.Publisher
	if cfg.RunRelay {
		pub, err = outbox.NewPublisher(cfg)
		if err != nil {
			log.Fatalf("outbox publisher: %v", err)
		}
		relay := outbox.NewRelay(store, pub, cfg.OutboxPollInterval)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := relay.Run(relayCtx); err != nil {
				logger.Error("relay_stopped", "error", err)
			}
		}()

		if pkgdb.IsPostgres(db) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := outbox.Listen(relayCtx, cfg.DatabaseURL, repo.OutboxChannel, relay); err != nil {
					logger.Warn("listener_stopped", "error", err)
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("cafeteria listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	stopRelay()
	wg.Wait()
	if pub != nil {
		_ = pub.Close()
	}
	_ = intents.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("cafeteria stopped")
}
