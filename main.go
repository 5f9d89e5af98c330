package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dijital-vitrin/app"
	"dijital-vitrin/app/middleware"
	"dijital-vitrin/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// go run . issue-token <tenantID> prints a dashboard token
	if len(os.Args) == 3 && os.Args[1] == "issue-token" {
		if cfg.JWTSecret == "" {
			log.Fatalf("JWT_SECRET must be set to issue tokens")
		}
		token, err := middleware.NewTokenAuth(cfg.JWTSecret).Issue("cli", os.Args[2], 30*24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize application
	handler, cleanup, err := app.Initialize(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// The catalog PDF export can take a while
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		log.Printf("Storefront: %s/store/{slug}", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
}
