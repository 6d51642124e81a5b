package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/database"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/infrastructure"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/server"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting prediction engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS event publishing
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Println("NATS event publishing initialized successfully")

	// Drain winner notifications in-process; delivery stays decoupled from
	// settlement through the durable consumer
	notificationDispatcher := infrastructure.NewWinnerNotificationDispatcher(natsClient, subjectMapper)
	if err := notificationDispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start notification dispatcher: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Start the HTTP server
	srv := server.New(cfg, uowFactory)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	log.Printf("Prediction engine is running in %s mode...", cfg.Environment)
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
