package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
	"github.com/Skotchmaster/retailer_portal/internal/config"
	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/httpserver"
	"github.com/Skotchmaster/retailer_portal/internal/mykafka"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/internal/search"
	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/sheets"
	pkgdb "github.com/Skotchmaster/retailer_portal/pkg/db"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
	"github.com/Skotchmaster/retailer_portal/pkg/middleware/csrf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	r := repo.New(db)
	if err := r.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	store, closeStore := cartStore(cfg, logger)
	defer closeStore()
	pub, closePub := publisher(cfg, logger)
	defer closePub()

	catalog := &service.CatalogService{Repo: r}
	if s := productSearcher(cfg, logger); s != nil {
		catalog.Search = s
	}
	seed(cfg, catalog, logger)

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AdminEmails:   cfg.AdminEmails,
		Events:        pub,
	}

	deps := &httpserver.Deps{
		DB:        db,
		JWTSecret: cfg.JWTAccessSecret,
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalog},
		Cart:      &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Store: store, Events: pub}},
		Orders:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Carts: store, Events: pub}},
		Profile: &httpserver.ProfileHTTP{
			Svc:       &service.ProfileService{Repo: r},
			Assistant: &service.AssistantService{Repo: r},
		},
	}
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		deps.CSRF = &c
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           httpserver.NewEcho(logger, deps),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	closeDB(db, logger)
	logger.Info("portal_stopped")
}

// cartStore prefers Redis and falls back to process memory when it is not
// configured or does not answer.
func cartStore(cfg *config.Config, l *slog.Logger) (cart.Store, func()) {
	if cfg.RedisAddr == "" {
		l.Info("cart_store", "backend", "memory")
		return cart.NewMemoryStore(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		l.Warn("cart_store", "backend", "memory", "reason", "redis unreachable", "error", err)
		_ = client.Close()
		return cart.NewMemoryStore(), func() {}
	}
	l.Info("cart_store", "backend", "redis", "addr", cfg.RedisAddr)
	return cart.NewRedisStore(client, cfg.CartTTL), func() { _ = client.Close() }
}

func publisher(cfg *config.Config, l *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		l.Info("events", "backend", "none")
		return events.NopPublisher{}, func() {}
	}
	prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		l.Warn("events", "backend", "none", "error", err)
		return events.NopPublisher{}, func() {}
	}
	l.Info("events", "backend", "kafka", "topic", cfg.KafkaTopic)
	return &events.KafkaPublisher{Producer: prod, Topic: cfg.KafkaTopic}, func() {
		if err := prod.Close(); err != nil {
			l.Error("kafka_close_error", "error", err)
		}
	}
}

func productSearcher(cfg *config.Config, l *slog.Logger) *search.ProductSearcher {
	if cfg.ESURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		l.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		return nil
	}
	return search.NewProductSearcher(client, cfg.ESIndex)
}

// seed loads the product and suggestion workbooks named in the environment.
func seed(cfg *config.Config, catalog *service.CatalogService, l *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if path := cfg.SeedProductsXLSX; path != "" {
		if err := seedFile(path, func(f *os.File) error {
			items, err := sheets.ReadProducts(f)
			if err != nil {
				return err
			}
			n, err := catalog.Import(ctx, items)
			l.Info("seed_products", "path", path, "imported", n)
			return err
		}); err != nil {
			l.Warn("seed_products_failed", "path", path, "error", err)
		}
	}

	if path := cfg.SeedSuggestionsXLSX; path != "" {
		if err := seedFile(path, func(f *os.File) error {
			rows, err := sheets.ReadSuggestions(f)
			if err != nil {
				return err
			}
			l.Info("seed_suggestions", "path", path, "rows", len(rows))
			return catalog.ImportSuggestions(ctx, rows)
		}); err != nil {
			l.Warn("seed_suggestions_failed", "path", path, "error", err)
		}
	}
}

func seedFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

func closeDB(db *gorm.DB, l *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		l.Error("db_close_error", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		l.Error("db_close_error", "error", err)
	}
}
