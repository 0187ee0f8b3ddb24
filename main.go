package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/pricewatcher/config"
	"sjsage522/pricewatcher/internal/scraper"
	"sjsage522/pricewatcher/logger"
	"sjsage522/pricewatcher/services/cache"
	"sjsage522/pricewatcher/services/ledger"
	"sjsage522/pricewatcher/services/notifier"
	"sjsage522/pricewatcher/services/publisher"
	"sjsage522/pricewatcher/services/watcher"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("product_url", cfg.ProductURL).
		Dur("poll_interval", cfg.PollInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create the page scraper
	source := scraper.NewPageScraper(cfg.ProductURL, services.Cache)

	// Create and start the watcher
	w := watcher.NewWatcher(
		source,
		services.Ledger,
		services.Notifier,
		services.Publisher,
		cfg.PollInterval,
	)

	// Start watcher in a goroutine
	watcherDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting price watcher")
		watcherDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or watcher exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-watcherDone:
		if err != nil {
			log.Error().Err(err).Msg("Watcher exited with error")
		} else {
			log.Info().Msg("Watcher exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Ledger    ledger.Ledger
	Notifier  notifier.Notifier
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Notifier != nil {
		s.Notifier.Close()
	}
	if s.Ledger != nil {
		s.Ledger.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Open the price ledger
	store, err := ledger.Open(cfg.LedgerDBPath)
	if err != nil {
		return nil, err
	}
	services.Ledger = store

	if count, err := store.Count(ctx); err == nil {
		logger.Info("Opened ledger at %s (%d observations)", cfg.LedgerDBPath, count)
	}

	// Initialize the Telegram notifier
	telegramNotifier, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		store.Close()
		return nil, err
	}
	services.Notifier = telegramNotifier

	logger.Info("Telegram notifier ready (chat %d)", cfg.TelegramChatID)

	// Initialize the optional rate-limit cache
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	// Initialize the optional observation publisher
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}
