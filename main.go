package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Printf("Server error: %v", err)
		stop()
		os.Exit(1)
	}
}

// run serves the application until ctx is cancelled, then shuts it down.
func run(ctx context.Context, cfg *config.Config) error {
	application, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("Error releasing resources: %v", err)
		}
	}()

	if application.MQ != nil {
		log.Println("Starting RabbitMQ consumer for order events...")
		if err := application.MQ.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		errCh <- application.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	if err := application.Fiber.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during Fiber shutdown: %w", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
