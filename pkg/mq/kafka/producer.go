package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
)

// Producer publishes each batch to a topic with a single SendMessages call.
// Items are encoded as JSON.
type Producer[T any] struct {
	producer sarama.SyncProducer
	topic    string
	keyFunc  func(T) string
}

// ProducerOption configures a Producer.
type ProducerOption[T any] func(*Producer[T])

// WithKey sets the message key for each item, which drives partitioning.
func WithKey[T any](fn func(T) string) ProducerOption[T] {
	return func(p *Producer[T]) { p.keyFunc = fn }
}

func NewProducer[T any](producer sarama.SyncProducer, topic string, opts ...ProducerOption[T]) *Producer[T] {
	p := &Producer[T]{producer: producer, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Consume sends the batch. sarama does not take a context, so ctx is only
// checked before sending.
func (p *Producer[T]) Consume(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, len(batch))
	for i, item := range batch {
		value, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrMarshalFailed, i, err)
		}

		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(value),
		}
		if p.keyFunc != nil {
			msg.Key = sarama.StringEncoder(p.keyFunc(item))
		}
		msgs[i] = msg
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		var perrs sarama.ProducerErrors
		if errors.As(err, &perrs) {
			return fmt.Errorf("%w: %d of %d messages: %v", ErrSendFailed, len(perrs), len(msgs), perrs[0].Err)
		}
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return nil
}

// Close closes the underlying producer.
func (p *Producer[T]) Close() error {
	return p.producer.Close()
}
