package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fraud-eda/internal/app"
	"fraud-eda/internal/config"
	"fraud-eda/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("📁 Dataset cache: %s", cfg.DataPath)

	// The dataset is loaded before listening; a fetch or parse failure is fatal.
	if err := app.Serve(ctx, cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
