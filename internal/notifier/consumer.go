package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kontraq/kontraq-be/internal/domain"
)

// setupConsumer configures QoS and starts consuming assignment events.
func (n *Notifier) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := n.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Per-consumer prefetch keeps slow SMS deliveries from hoarding
	// unacked messages.
	if err := channel.Qos(n.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := n.rabbitClient.Consume(n.consumerTag)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	n.logger.Info("Notification consumer started",
		slog.String("consumer_tag", n.consumerTag),
		slog.Int("prefetch_count", n.prefetchCount),
	)

	return deliveries, nil
}

// startDispatcher decodes deliveries and feeds them to the worker pool.
// Malformed payloads are nacked without requeue immediately.
func (n *Notifier) startDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Notification dispatcher stopped - context canceled")
			return

		case <-n.stopChan:
			n.logger.Info("Notification dispatcher stopped")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				n.logger.Warn("Delivery channel closed, dispatcher exiting")
				return
			}

			var event domain.AssignmentEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				n.logger.Error("Failed to decode assignment event",
					slog.String("error", err.Error()),
				)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					n.logger.Error("Failed to nack malformed delivery",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}
			event.DeliveryTag = delivery.DeliveryTag

			select {
			case n.eventsChan <- &event:
			case <-ctx.Done():
				return
			case <-n.stopChan:
				return
			}
		}
	}
}
