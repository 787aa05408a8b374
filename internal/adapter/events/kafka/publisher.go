package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"remitflow/internal/core/ports"
)

// Publisher emits transfer status events to Kafka. It implements
// ports.EventPublisher.
type Publisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

func NewPublisher(brokers []string, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

// PublishTransferStatus writes one event keyed by transfer ID so consumers
// see status changes for a transfer in order.
func (p *Publisher) PublishTransferStatus(ctx context.Context, event ports.TransferEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transfer event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TransferID.String()),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("write transfer event: %w", err)
	}

	p.log.Debug().
		Str("transfer_id", event.TransferID.String()).
		Str("status", string(event.Status)).
		Msg("published transfer event")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransferStatus(context.Context, ports.TransferEvent) error { return nil }
func (NopPublisher) Close() error                                                     { return nil }
