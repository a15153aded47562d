package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kontraq/kontraq-be/internal/config"
	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/notifier"
	"github.com/kontraq/kontraq-be/shared/logger"
	"github.com/kontraq/kontraq-be/shared/postgresql"
	"github.com/kontraq/kontraq-be/shared/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("NOTIFIER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/notifier-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateNotifierConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if authToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}

	appLogger, err := logger.New(&logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		EnableSource: cfg.Logging.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting notifier service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	rabbitClient, err := rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.RabbitMQ.Host,
		Port:               cfg.RabbitMQ.Port,
		User:               cfg.RabbitMQ.User,
		Password:           cfg.RabbitMQ.Password,
		VHost:              cfg.RabbitMQ.VHost,
		ExchangeName:       cfg.RabbitMQ.Exchange.Name,
		ExchangeType:       cfg.RabbitMQ.Exchange.Type,
		ExchangeDurable:    cfg.RabbitMQ.Exchange.Durable,
		ExchangeAutoDelete: cfg.RabbitMQ.Exchange.AutoDelete,
		QueueName:          cfg.RabbitMQ.Queue.Name,
		QueueDurable:       cfg.RabbitMQ.Queue.Durable,
		QueueAutoDelete:    cfg.RabbitMQ.Queue.AutoDelete,
		QueueExclusive:     cfg.RabbitMQ.Queue.Exclusive,
		RoutingKey:         cfg.RabbitMQ.RoutingKey,
		RetryAttempts:      cfg.RabbitMQ.Connection.RetryAttempts,
		RetryInterval:      cfg.RabbitMQ.Connection.RetryInterval,
		Heartbeat:          cfg.RabbitMQ.Connection.Heartbeat,
		ConnectionTimeout:  cfg.RabbitMQ.Connection.ConnectionTimeout,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}
	defer rabbitClient.Close()

	sender := notifier.NewTwilioSender(&notifier.TwilioConfig{
		AccountSID: cfg.Notifier.Twilio.AccountSID,
		AuthToken:  authToken,
		FromNumber: cfg.Notifier.Twilio.FromNumber,
		Timeout:    cfg.Notifier.SendTimeout,
	})

	n := notifier.New(&notifier.Config{
		Logger:        appLogger.Logger,
		Store:         directory.NewPostgresStore(dbClient),
		RabbitClient:  rabbitClient,
		Sender:        sender,
		Concurrency:   cfg.Notifier.Concurrency,
		PrefetchCount: cfg.Notifier.PrefetchCount,
		SendTimeout:   cfg.Notifier.SendTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notifier: %w", err)
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down notifier...")
	cancel()

	done := make(chan struct{})
	go func() {
		n.Stop()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("Notifier shutdown complete")
	case <-time.After(cfg.Notifier.ShutdownTimeout):
		appLogger.Warn("Notifier shutdown timed out")
	}

	return nil
}
