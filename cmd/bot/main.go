package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/victoria-pups/event-bot/internal/bot"
	"github.com/victoria-pups/event-bot/internal/config"
	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/locale"
	"github.com/victoria-pups/event-bot/internal/logger"
	"github.com/victoria-pups/event-bot/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(logLevel)
	log.Info("Starting Event Bot", "log_level", cfg.LogLevel)

	// Make sure the data directories exist
	for _, path := range []string{cfg.EventsFile, cfg.SessionsDBPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Error("Failed to create data directory", "path", filepath.Dir(path), "error", err)
			os.Exit(1)
		}
	}

	// Initialize sessions database
	db, err := sql.Open("sqlite", cfg.SessionsDBPath)
	if err != nil {
		log.Error("Failed to open sessions database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Error("Failed to enable WAL mode", "error", err)
		os.Exit(1)
	}

	log.Info("Sessions database opened", "path", cfg.SessionsDBPath)

	// Initialize DBQueue for safe concurrent access
	dbQueue := storage.NewDBQueue(db)
	defer dbQueue.Close()

	// Initialize database schema
	if err := storage.InitSchema(context.Background(), dbQueue); err != nil {
		log.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}
	log.Info("Database schema initialized")

	// Load the event document
	eventStore := storage.NewEventStore(cfg.EventsFile, log)
	if err := eventStore.Load(); err != nil {
		log.Error("Failed to load event file", "error", err)
		os.Exit(1)
	}

	// Create repositories
	knownUserRepo := storage.NewKnownUserRepository(dbQueue, log)
	sessions := storage.NewSessionStorage(dbQueue, log)

	log.Info("Repositories created")

	// Create localizer
	localizer, err := locale.NewLocalizer(locale.NewLocale("en"))
	if err != nil {
		log.Error("Failed to create localizer", "error", err)
		os.Exit(1)
	}

	// Create domain managers
	eventManager := domain.NewEventManager(eventStore, knownUserRepo, log)
	renderer := domain.NewAnnouncementRenderer(localizer)

	log.Info("Domain managers created")

	// Cleanup stale dialog sessions on startup
	cleanupCtx := context.Background()
	if err := sessions.CleanupStale(cleanupCtx); err != nil {
		log.Error("Failed to cleanup stale sessions", "error", err)
		// Don't exit, just log the error
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize Telegram bot
	b, err := tgbot.New(cfg.TelegramToken)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	log.Info("Telegram bot created")

	// Get bot info for the RSVP deep-link service
	botInfo, err := b.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		os.Exit(1)
	}
	log.Info("Bot info retrieved", "username", botInfo.Username)

	deepLinks, err := domain.NewDeepLinkService(botInfo.Username)
	if err != nil {
		log.Error("Failed to create deep-link service", "error", err)
		os.Exit(1)
	}

	// Create broadcaster
	broadcaster := domain.NewBroadcaster(b, cfg.BroadcastTimeout, log)

	// Create dialog FSMs
	creationFSM := bot.NewEventCreationFSM(sessions, b, eventManager, localizer, log)
	announcementFSM := bot.NewAnnouncementFSM(sessions, b, eventManager, renderer, deepLinks, cfg, localizer, log)
	broadcastFSM := bot.NewBroadcastFSM(sessions, b, eventManager, broadcaster, localizer, log)

	log.Info("Dialog FSMs created")

	// Create bot handler
	handler := bot.NewBotHandler(
		b,
		eventManager,
		renderer,
		deepLinks,
		cfg,
		log,
		sessions,
		creationFSM,
		announcementFSM,
		broadcastFSM,
		localizer,
	)

	log.Info("Bot handler created")

	// Register command handlers
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, handler.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, handler.HandleHelp)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/eventadmin", tgbot.MatchTypeExact, handler.HandleEventAdmin)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stop", tgbot.MatchTypeExact, handler.HandleStop)

	// Register callback query handler
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, handler.HandleCallback)

	// Register message handler for dialog flows
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "", tgbot.MatchTypePrefix, handler.HandleMessage)

	log.Info("Command handlers registered")

	// Start bot polling in a goroutine
	go func() {
		log.Info("Starting bot polling")
		b.Start(ctx)
	}()

	log.Info("Bot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("Shutdown signal received, stopping bot...")
	log.Info("Bot stopped successfully")
}
