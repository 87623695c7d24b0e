package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrProducerFull is returned when the outgoing buffer has no room
var ErrProducerFull = errors.New("event buffer full")

// ErrProducerClosed is returned by Publish after Close
var ErrProducerClosed = errors.New("event producer closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers envelopes and writes them to Kafka from a single goroutine.
// The partition key is the order id so events of one order stay ordered.
type Producer struct {
	w       messageWriter
	logger  *zap.Logger
	inbox   chan kafka.Message
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	started bool
}

// NewProducer creates a producer writing to topic on the given brokers
func NewProducer(brokers []string, topic string, buf int, logger *zap.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf, logger)
}

func newProducer(w messageWriter, buf int, logger *zap.Logger) *Producer {
	if buf <= 0 {
		buf = 1
	}
	return &Producer{
		w:      w,
		logger: logger,
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
	}
}

// Start launches the write loop. It drains the buffer and closes the writer
// once Close is called.
func (p *Producer) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.logger.Error("Failed to write event",
					zap.Error(err),
					zap.String("key", string(m.Key)),
				)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.logger.Error("Failed to close kafka writer", zap.Error(err))
		}
	}()
}

// Publish enqueues env without blocking
func (p *Producer) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrProducerFull
	}
}

// Close stops accepting events and waits until buffered ones are flushed
func (p *Producer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.inbox)
	started := p.started
	p.mu.Unlock()

	if started {
		<-p.done
	} else {
		_ = p.w.Close()
	}
}
