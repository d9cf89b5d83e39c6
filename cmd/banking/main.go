package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	"cardbank/internal/card"
	"cardbank/internal/cli"
	"cardbank/internal/config"
	"cardbank/internal/infrastructure/database"
	"cardbank/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	cards, err := card.NewGenerator(cfg.Bank.IssuerID, nil)
	if err != nil {
		log.Fatalf("card generator: %v", err)
	}
	bank := service.NewBankService(db, cards, cfg.Bank.MaxCreateAttempts)

	err = cli.NewMenu(bank, os.Stdin, os.Stdout).Run(context.Background())

	if cerr := database.Close(db); cerr != nil {
		log.Printf("close database: %v", cerr)
	}
	if err != nil && !errors.Is(err, cli.ErrExit) && !errors.Is(err, io.EOF) {
		log.Fatalf("menu: %v", err)
	}
}
