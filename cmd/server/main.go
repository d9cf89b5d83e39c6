package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardbank/internal/card"
	"cardbank/internal/config"
	"cardbank/internal/handler"
	"cardbank/internal/infrastructure/cache"
	"cardbank/internal/infrastructure/database"
	"cardbank/internal/infrastructure/sessionstore"
	"cardbank/internal/job"
	"cardbank/internal/service"
	"cardbank/pkg/idgen"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := idgen.Init(1); err != nil {
		log.Fatalf("init idgen: %v", err)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close(db)

	cards, err := card.NewGenerator(cfg.Bank.IssuerID, nil)
	if err != nil {
		log.Fatalf("card generator: %v", err)
	}
	bank := service.NewBankService(db, cards, cfg.Bank.MaxCreateAttempts)

	// Context for graceful shutdown of background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ttl := time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute
	var sessions sessionstore.Store
	switch cfg.Server.SessionStore {
	case "redis":
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		defer client.Close()
		sessions = sessionstore.NewRedisStore(client, ttl)
	default:
		memory := sessionstore.NewMemoryStore(ttl)
		sweeper := job.NewSessionSweeper(memory, time.Minute)
		go sweeper.Start(ctx)
		sessions = memory
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.SetupRouter(bank, sessions)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("[Server] listening on :%d (sessions: %s)", cfg.Server.Port, cfg.Server.SessionStore)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] shutting down...")

	// Stop background jobs first
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] shutdown error: %v", err)
	}

	log.Println("[Server] stopped")
}
