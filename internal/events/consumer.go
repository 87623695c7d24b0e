package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one envelope. Returning nil commits the message offset.
type Handler func(ctx context.Context, env Envelope) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads order events for a consumer group
type Consumer struct {
	r      messageReader
	logger *zap.Logger
}

// NewConsumer creates a consumer group reader on topic
func NewConsumer(brokers []string, group, topic string, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	return &Consumer{r: r, logger: logger}
}

// Run processes messages until ctx is cancelled. Malformed messages are
// logged and committed. A handler failure stops Run without committing, so
// the group resumes from the failed message on the next start.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	defer c.r.Close()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var env Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			c.logger.Warn("Skipping malformed event",
				zap.Error(err),
				zap.Int64("offset", m.Offset),
			)
		} else if err := h(ctx, env); err != nil {
			c.logger.Error("Event handler failed",
				zap.Error(err),
				zap.String("event_id", env.EventID),
				zap.String("event_type", env.EventType),
			)
			return fmt.Errorf("handle event %s at offset %d: %w", env.EventID, m.Offset, err)
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
