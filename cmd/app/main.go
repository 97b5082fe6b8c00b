package main

import (
	"flag"
	"log"
	"os"

	"TradeNet/internal/di"
	"TradeNet/pkg/config"
)

func main() {
	// Parse flags
	envFile := flag.String("env", "", "dotenv file path (default: ./.env if present)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("exchange=%s testnet=%v project=%s", cfg.Exchange.ID, cfg.Exchange.Testnet, cfg.Firebase.ProjectID)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
