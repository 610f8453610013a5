package batcher

import (
	"context"
	"time"
)

// Consumer is the interface that must be implemented by users of the BatchBuffer.
// It is responsible for processing a batch of items.
type Consumer[T any] interface {
	// Consume processes a batch of items.
	// The batch is owned by the consumer and is never reused by the buffer.
	// Returns an error if processing fails, which halts the buffer.
	Consume(ctx context.Context, batch []T) error
}

// ConsumerFunc adapts an ordinary function to the Consumer interface.
type ConsumerFunc[T any] func(ctx context.Context, batch []T) error

// Consume calls f(ctx, batch).
func (f ConsumerFunc[T]) Consume(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

// Config holds configuration for the BatchBuffer.
type Config struct {
	// BatchSize is the number of items in a full batch.
	// When the pending stripe reaches this size, it is handed to the Consumer.
	BatchSize int `yaml:"batch_size" validate:"gt=0"`

	// QueueSize is the number of emitted batches that may wait for the
	// Consumer before Feed blocks. Zero selects the default.
	QueueSize int `yaml:"queue_size" validate:"gte=0"`
}

// WithTimeout bounds every Consume call of c by d. A non-positive d returns c unchanged.
func WithTimeout[T any](c Consumer[T], d time.Duration) Consumer[T] {
	if d <= 0 {
		return c
	}
	return ConsumerFunc[T](func(ctx context.Context, batch []T) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return c.Consume(ctx, batch)
	})
}
