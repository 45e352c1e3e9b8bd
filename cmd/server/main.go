package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ticket-storefront/internal/config"
	"ticket-storefront/internal/database"
	"ticket-storefront/internal/handlers"
	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/repositories"
	"ticket-storefront/internal/server"
	"ticket-storefront/internal/services"
	"ticket-storefront/web/templates/pages"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	flags.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "address to listen on")
	flags.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "port to listen on")
	flags.StringVar(&cfg.API.BaseURL, "api-base-url", cfg.API.BaseURL, "orders API base URL")
	flags.StringVar(&cfg.Storefront.EventID, "event-id", cfg.Storefront.EventID, "event whose tickets are sold")
	flags.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "Redis URL for carts, submission locks and rate limits")
	flags.BoolVar(&cfg.Server.Demo, "demo", cfg.Server.Demo, "serve an in-memory orders API")
	_ = flags.Parse(os.Args[1:])

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	healthChecks := map[string]handlers.HealthCheck{}

	var ordersAPI services.OrdersAPI
	if cfg.Server.Demo {
		ordersAPI = services.NewMockOrdersAPI(cfg.Storefront.EventName, services.DemoTicketTypes())
		logger.Info("using in-memory orders API")
	} else {
		ordersAPI = services.NewOrdersAPIClient(services.OrdersAPIConfig{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
		}, logger)
	}

	var (
		cartRepo repositories.CartRepository = repositories.NewMemoryCartRepository()
		guard    services.SubmissionGuard    = services.NewMemorySubmissionGuard()
		limiter  middleware.Limiter
	)

	memoryLimiter := middleware.NewRateLimiter(cfg.RateLimit.Submissions, cfg.RateLimit.Window)
	defer memoryLimiter.Stop()
	limiter = memoryLimiter

	if cfg.Redis.URL != "" {
		client, err := connectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, keeping carts in memory", zap.Error(err))
		} else {
			defer client.Close()
			cartRepo = repositories.NewRedisCartRepository(client, cfg.Redis.CartTTL)
			guard = services.NewRedisSubmissionGuard(client, 2*cfg.API.Timeout)
			limiter = middleware.NewRedisRateLimiter(client, cfg.RateLimit.Submissions, cfg.RateLimit.Window)
			healthChecks["redis"] = func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}
			logger.Info("redis connected")
		}
	}

	var auditor services.CheckoutAuditor = services.NoopAuditor{}
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, databaseConfig(cfg))
		if err != nil {
			logger.Warn("database unavailable, checkout attempts will not be recorded", zap.Error(err))
		} else {
			defer db.Close()
			attempts := repositories.NewCheckoutAttemptRepository(db.DB)
			auditor = services.NewAuditService(attempts, cfg.Storefront.FingerprintSalt, logger)
			healthChecks["database"] = db.PingContext
			logger.Info("database connection established")
		}
	}

	var publisher services.OrderEventPublisher = services.NoopPublisher{}
	if cfg.Broker.URL != "" {
		publisher = services.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Queue, logger)
	}
	defer publisher.Close()

	catalog := services.NewCatalogService(ordersAPI, cfg.Storefront.EventID)
	carts := services.NewCartService(cartRepo, catalog, cfg.Storefront.EventID, logger)
	checkout := services.NewCheckoutService(ordersAPI, carts, cfg.Storefront.EventID, logger,
		services.WithAuditor(auditor),
		services.WithPublisher(publisher),
		services.WithGuard(guard),
	)
	orders := services.NewOrderService(ordersAPI)

	router := server.NewRouter(server.Dependencies{
		Store:             newSessionStore(cfg),
		Catalog:           catalog,
		Carts:             carts,
		Checkout:          checkout,
		Orders:            orders,
		Limiter:           limiter,
		HealthChecks:      healthChecks,
		Shop:              pages.Storefront{Brand: cfg.Storefront.Brand, Currency: cfg.Storefront.CurrencySymbol},
		EventName:         cfg.Storefront.EventName,
		CustomerParam:     cfg.Storefront.CustomerParam,
		DefaultCustomerID: cfg.Storefront.DefaultCustomerID,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.API.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("event_id", cfg.Storefront.EventID),
			zap.Bool("demo", cfg.Server.Demo))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}
}

func newSessionStore(cfg *config.Config) sessions.Store {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
