package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PricePredictor/internal/app"
	"PricePredictor/internal/bot"
	"PricePredictor/internal/config"
	"PricePredictor/internal/notifier"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PricePredictor bot starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init pipeline
	a, err := app.Build(cfg, app.Options{Offline: os.Getenv("OFFLINE") == "true"})
	if err != nil {
		log.Fatalf("[FATAL] init pipeline: %v", err)
	}
	defer a.Close()

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := bot.NewDispatcher(ctx, a.Pipeline, cfg.Forecast.DefaultStock, cfg.Forecast.DefaultFund)

	// Start Telegram polling
	done := make(chan struct{})
	go func() {
		defer close(done)
		tn.StartPolling(ctx, dispatcher.HandleCommand)
	}()
	log.Println("[INFO] Telegram polling started")

	if err := tn.Send(notifier.FormatHelp(cfg.Forecast.DefaultStock, cfg.Forecast.DefaultFund)); err != nil {
		log.Printf("[WARN] send startup message: %v", err)
	}

	log.Println("[INFO] PricePredictor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	<-done
	log.Println("[INFO] PricePredictor stopped")
}
