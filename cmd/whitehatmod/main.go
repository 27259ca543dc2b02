package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oxi1224/WhiteHatMod/internal/bot"
	"github.com/oxi1224/WhiteHatMod/internal/config"
)

func main() {
	// Missing .env is fine in deployments that inject real env vars.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if len(os.Args) > 1 {
		cfg.SetEnv(os.Args[1])
	}

	modBot, err := bot.New(cfg)
	if err != nil {
		log.Fatal("Failed to create bot: ", err)
	}
	if err := modBot.Start(); err != nil {
		log.Fatal("Failed to start bot: ", err)
	}
}
