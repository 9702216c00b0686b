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

	"github.com/joho/godotenv"

	"github.com/traitflow/traitflow/internal/config"
	"github.com/traitflow/traitflow/internal/gateway"
	"github.com/traitflow/traitflow/internal/policy"
	"github.com/traitflow/traitflow/internal/repository"
	"github.com/traitflow/traitflow/internal/service"
	transport "github.com/traitflow/traitflow/internal/transport/http"
)

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to load .env: %v", err)
	}
	cfg := config.Load()

	log.Printf("Starting assessment orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Scoring service: %s", cfg.ScoringURL)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize archive
	archive, err := repository.NewSQLiteArchive(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize archive: %v", err)
	}
	defer archive.Close()

	// Initialize scoring service gateway
	gw := gateway.NewClient(cfg.ScoringURL, cfg.ScoringTimeout)

	// Initialize role policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(gw, archive, policyEngine, cfg)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
