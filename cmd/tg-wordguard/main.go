package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tg-wordguard/internal/bot"
	"tg-wordguard/internal/config"
	"tg-wordguard/internal/crash"
	"tg-wordguard/internal/handler"
	"tg-wordguard/internal/logger"
	"tg-wordguard/internal/moderation"
	"tg-wordguard/internal/service"
	"tg-wordguard/internal/storage"
	"tg-wordguard/internal/store"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")
	crash.SetupCrashHandler()

	// Optional .env for local development; real deployments use the config file
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if cfg.Database.Enabled {
		if err := storage.Initialize(cfg); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		service.InitRepositories()
		logger.Info("Database connection established and audit repositories initialized")
	} else {
		logger.Info("Database support is disabled. Audit mirror will not be initialized.")
	}

	dataStore := store.New(cfg.Moderation.StateFile, cfg.Bot.OwnerID)
	dataStore.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	transport := bot.NewTransport(botService.Bot)
	engine := moderation.NewEngine(dataStore, transport, cfg.Bot.OwnerID,
		cfg.Moderation.WarningThreshold,
		time.Duration(cfg.Moderation.NoticeTTLSeconds)*time.Second)
	if cfg.Database.Enabled {
		engine.SetAudit(service.NewAudit())
	}

	handler.Initialize(cfg, dataStore, engine, transport)

	crash.SafeGoroutine("http-server", func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("HTTP server error: %v", err)
		}
	})

	// Give server time to start
	time.Sleep(500 * time.Millisecond)
	log.Println("HTTP server is ready, starting bot handler...")

	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	botService.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT, syscall.SIGQUIT)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	logger.Info("Waiting for message handlers to complete...")
	done := make(chan struct{})
	go func() {
		handler.WaitForHandlers()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("All message handlers completed")
	case <-time.After(30 * time.Second):
		logger.Warning("Timeout waiting for message handlers, proceeding with shutdown")
	}

	botService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
