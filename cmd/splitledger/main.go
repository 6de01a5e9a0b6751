package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/splitledger/internal/adapters/analytics"
	"github.com/SscSPs/splitledger/internal/adapters/cache"
	"github.com/SscSPs/splitledger/internal/adapters/chat/discord"
	"github.com/SscSPs/splitledger/internal/adapters/ocr"
	"github.com/SscSPs/splitledger/internal/bot"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/core/services"
	"github.com/SscSPs/splitledger/internal/handlers"
	"github.com/SscSPs/splitledger/internal/middleware"
	"github.com/SscSPs/splitledger/internal/platform/config"
	"github.com/SscSPs/splitledger/internal/platform/database"
	"github.com/SscSPs/splitledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/splitledger/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title SplitLedger API
// @version 1.0
// @description Group expense splitting: events, consensus-approved expenses, payments and settlements.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, "file://migrations")
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	sessions, sweeper, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize session store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), sessions)
	if posthogClient.IsInitialized() {
		container.Listeners.Register(analytics.NewLedgerOutcomeListener(posthogClient))
	}

	chat, err := startChatBot(ctx, cfg, container)
	if err != nil {
		logger.Error("Failed to start chat bot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if chat != nil {
		defer func() {
			if err := chat.Stop(); err != nil {
				logger.Error("Error stopping chat bot", slog.String("error", err.Error()))
			}
		}()
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsConfig.AddAllowHeaders("Authorization")

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RateLimit(limiter.New(memory.NewStore(), rate), "/health"),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, posthogClient)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newSessionStore picks Redis when REDIS_URL is set and the in-process store otherwise.
// The returned sweeper is nil for Redis, which expires keys itself.
func newSessionStore(ctx context.Context, cfg *config.Config) (portsrepo.SessionStore, *cache.Sweeper, error) {
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Using Redis session store")
		return cache.NewRedisSessionStore(client), nil, nil
	}

	slog.Warn("REDIS_URL not set, chat sessions are kept in memory")
	store := cache.NewMemorySessionStore()
	return store, cache.NewSweeper(store, cfg.SessionSweepInterval), nil
}

// startChatBot connects the Discord adapter when a token is configured.
func startChatBot(ctx context.Context, cfg *config.Config, container *portssvc.ServiceContainer) (portssvc.ChatAdapter, error) {
	if cfg.DiscordBotToken == "" {
		return nil, nil
	}

	adapter, err := discord.New(cfg.DiscordBotToken)
	if err != nil {
		return nil, err
	}

	opts := []bot.DispatcherOption{
		bot.WithCurrencySymbol(cfg.CurrencySymbol),
		bot.WithMinConfidence(cfg.ReceiptMinConfidence),
	}
	if cfg.GoogleVisionCredentialsFile != "" {
		scanner, err := ocr.NewVisionScanner(ctx, cfg.GoogleVisionCredentialsFile)
		if err != nil {
			slog.Warn("Receipt scanning disabled", slog.String("error", err.Error()))
		} else {
			opts = append(opts, bot.WithReceiptScanner(scanner))
		}
	}

	dispatcher := bot.NewDispatcher(container, adapter, opts...)
	adapter.OnMessage(dispatcher.HandleMessage)
	container.Listeners.Register(bot.NewAnnouncer(adapter, container.Event, cfg.CurrencySymbol))

	if err := adapter.Start(ctx); err != nil {
		return nil, err
	}
	slog.Info("Chat bot connected")
	return adapter, nil
}
