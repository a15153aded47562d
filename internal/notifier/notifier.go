// Package notifier consumes assignment events from RabbitMQ and delivers
// SMS notifications to the assigned subcontractor. It runs as its own
// service next to the API, the same split the rest of the system uses
// between write path and side effects.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/shared/rabbitmq"
)

// Config holds notifier dependencies and tuning.
type Config struct {
	Logger       *slog.Logger
	Store        directory.Store
	RabbitClient *rabbitmq.Client
	Sender       SMSSender

	Concurrency   int
	PrefetchCount int
	SendTimeout   time.Duration
}

// Notifier is the assignment notification consumer.
type Notifier struct {
	logger       *slog.Logger
	store        directory.Store
	rabbitClient *rabbitmq.Client
	sender       SMSSender

	concurrency   int
	prefetchCount int
	sendTimeout   time.Duration
	consumerTag   string

	eventsChan chan *domain.AssignmentEvent
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// New creates a notifier instance.
func New(cfg *Config) *Notifier {
	return &Notifier{
		logger:        cfg.Logger,
		store:         cfg.Store,
		rabbitClient:  cfg.RabbitClient,
		sender:        cfg.Sender,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		sendTimeout:   cfg.SendTimeout,
		consumerTag:   fmt.Sprintf("notifier-%s", uuid.New().String()[:8]),
		eventsChan:    make(chan *domain.AssignmentEvent),
		stopChan:      make(chan struct{}),
	}
}

// Start sets up the consumer, spawns the worker pool, and dispatches
// deliveries until the context is canceled or Stop is called.
func (n *Notifier) Start(ctx context.Context) error {
	n.logger.Info("Starting notifier",
		slog.Int("concurrency", n.concurrency),
		slog.String("consumer_tag", n.consumerTag),
	)

	deliveries, err := n.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	n.spawnWorkerPool(ctx)
	go n.startDispatcher(ctx, deliveries)

	return nil
}

// Stop signals the worker pool to drain and waits for it.
func (n *Notifier) Stop() {
	n.logger.Info("Stopping notifier")
	close(n.stopChan)
	n.wg.Wait()
	n.logger.Info("Notifier stopped")
}

// spawnWorkerPool starts the configured number of delivery goroutines.
func (n *Notifier) spawnWorkerPool(ctx context.Context) {
	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.workerLoop(ctx, i)
	}

	n.logger.Info("Notifier worker pool spawned",
		slog.Int("worker_count", n.concurrency),
	)
}

// workerLoop handles one event at a time: deliver, then ack or nack.
func (n *Notifier) workerLoop(ctx context.Context, workerNum int) {
	defer n.wg.Done()

	workerName := fmt.Sprintf("%s-%d", n.consumerTag, workerNum)

	for {
		select {
		case <-n.stopChan:
			n.logger.Info("Notifier worker stopping",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			n.logger.Info("Notifier worker stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case event, ok := <-n.eventsChan:
			if !ok {
				return
			}

			err := n.processEvent(ctx, event)

			channel := n.rabbitClient.GetChannel()
			if channel == nil {
				n.logger.Error("Failed to get broker channel for ack",
					slog.String("worker_name", workerName),
					slog.String("job_id", event.JobID),
				)
				continue
			}

			if err != nil {
				requeue := n.shouldRequeue(err)
				n.logger.Error("Notification delivery failed",
					slog.String("worker_name", workerName),
					slog.String("job_id", event.JobID),
					slog.Bool("requeue", requeue),
					slog.String("error", err.Error()),
				)

				if nackErr := channel.Nack(event.DeliveryTag, false, requeue); nackErr != nil {
					n.logger.Error("Failed to nack delivery",
						slog.String("worker_name", workerName),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := channel.Ack(event.DeliveryTag, false); ackErr != nil {
				n.logger.Error("Failed to ack delivery",
					slog.String("worker_name", workerName),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

// shouldRequeue keeps transient provider failures on the queue and drops
// everything else: malformed events and unknown entities never succeed on
// retry.
func (n *Notifier) shouldRequeue(err error) bool {
	var retryable *RetryableError
	return errors.As(err, &retryable)
}
