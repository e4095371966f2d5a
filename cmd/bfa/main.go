package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/config"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/handler"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/cache"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/client"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/memory"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/observability"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/postgres"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/redis"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/supabase"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/port"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, "quote-bfa")
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("settings_backend", cfg.SettingsBackend),
		zap.Bool("redis_drafts", cfg.RedisAddr != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "quote-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Price table ---
	table, err := config.LoadPriceTable(cfg.PriceTablePath)
	if err != nil {
		logger.Fatal("failed to load price table", zap.String("path", cfg.PriceTablePath), zap.Error(err))
	}
	engine := service.NewPricingEngine(table)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	probes := map[string]handler.Pinger{}

	ctx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// --- Settings store ---
	defaults := domain.PricingSettings{
		PhotoUnitPrice: cfg.DefaultPhotoUnitPrice,
		VideoUnitPrice: cfg.DefaultVideoUnitPrice,
		PricePerKm:     cfg.DefaultPricePerKm,
	}

	var settingsStore port.SettingsStore
	switch cfg.SettingsBackend {
	case "supabase":
		sb := supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase"),
			resilienceCfg,
			logger,
		)
		settingsStore = sb
		probes["supabase"] = sb
		logger.Info("using Supabase as settings backend", zap.String("supabase_url", cfg.SupabaseURL))
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, 20*time.Second, logger)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("failed to migrate postgres", zap.Error(err))
		}
		settingsStore = postgres.NewSettingsStore(db)
		probes["postgres"] = handler.PingFunc(db.PingContext)
		logger.Info("using Postgres as settings backend")
	default:
		settingsStore = memory.NewSettingsStore(defaults)
		logger.Warn("settings kept in memory, admin changes are lost on restart")
	}

	// --- Cache ---
	settingsCache := cache.New[*domain.PricingSettings](cfg.CacheTTL)
	defer settingsCache.Close()
	distanceCache := cache.New[*domain.DistanceResult](cfg.CacheTTL)
	defer distanceCache.Close()

	// --- Clients ---
	geocoder := client.NewNominatimClient(
		httpClient,
		cfg.GeocoderURL,
		cfg.GeocoderUserAgent,
		resilience.NewCircuitBreaker("geocoder"),
		resilienceCfg,
	)

	var availability port.AvailabilityChecker
	if cfg.CalendarAPIKey != "" && cfg.CalendarID != "" {
		loc, err := time.LoadLocation(cfg.CalendarTZ)
		if err != nil {
			logger.Fatal("invalid calendar timezone", zap.String("tz", cfg.CalendarTZ), zap.Error(err))
		}
		availability = client.NewCalendarClient(
			httpClient,
			cfg.CalendarURL,
			cfg.CalendarAPIKey,
			cfg.CalendarID,
			loc,
			resilience.NewCircuitBreaker("calendar"),
			resilienceCfg,
		)
		logger.Info("calendar availability enabled", zap.String("calendar_id", cfg.CalendarID))
	} else {
		logger.Warn("calendar not configured, every date reported as available")
	}

	var sender port.MessageSender
	if cfg.WhatsAppAccessToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		sender = client.NewWhatsAppCloudSender(
			httpClient,
			cfg.WhatsAppAPIURL,
			cfg.WhatsAppAccessToken,
			cfg.WhatsAppPhoneNumberID,
			resilience.NewCircuitBreaker("whatsapp"),
			resilienceCfg,
		)
		logger.Info("whatsapp delivery enabled")
	}

	var notifier port.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err := client.NewTelegramBot(cfg.TelegramToken, "")
		if err != nil {
			logger.Error("telegram bot unavailable, owner alerts disabled", zap.Error(err))
		} else {
			notifier = client.NewTelegramNotifier(bot, cfg.TelegramChatID)
			logger.Info("telegram owner alerts enabled", zap.String("bot", bot.Self.UserName))
		}
	}

	// --- Draft store ---
	var draftStore port.DraftStore
	if cfg.RedisAddr != "" {
		rs := redis.NewDraftStore(redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.DraftTTL)
		defer rs.Close()
		draftStore = rs
		probes["redis"] = rs
		logger.Info("drafts stored in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		ms := memory.NewDraftStore(cfg.DraftTTL)
		defer ms.Close()
		draftStore = ms
	}

	// --- Services ---
	settingsSvc := service.NewSettingsService(settingsStore, settingsCache, defaults, metrics, logger)
	distanceSvc := service.NewDistanceService(
		geocoder,
		distanceCache,
		domain.Coordinates{Latitude: cfg.OriginLat, Longitude: cfg.OriginLon},
		cfg.TortuosityFactor,
		metrics,
		logger,
	)
	quoteSvc := service.NewQuoteService(service.QuoteServiceDeps{
		Engine:           engine,
		Settings:         settingsSvc,
		Distance:         distanceSvc,
		Availability:     availability,
		Sender:           sender,
		Notifier:         notifier,
		BusinessWhatsApp: cfg.BusinessWhatsApp,
		Metrics:          metrics,
		Logger:           logger,
	})
	draftSvc := service.NewDraftService(draftStore, logger)

	adminSvc := service.NewAdminAuthService(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	if !adminSvc.Enabled() {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin routes unavailable")
	}

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Quotes:    quoteSvc,
		Distance:  distanceSvc,
		Settings:  settingsSvc,
		Drafts:    draftSvc,
		AdminAuth: adminSvc,
		Probes:    probes,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
