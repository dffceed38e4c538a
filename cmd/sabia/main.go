package main

import (
	"log"

	"sabia/internal/bot"
	"sabia/internal/config"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	sabia, err := bot.New(cfg)
	if err != nil {
		cfg.Logger.Fatal("Failed to create bot", "err", err)
	}

	if err := sabia.Start(); err != nil {
		cfg.Logger.Fatal("Failed to start bot", "err", err)
	}
}
