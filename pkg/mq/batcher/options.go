package batcher

import (
	"context"

	"go.uber.org/zap"
)

const defaultQueueSize = 64

type options struct {
	logger *zap.Logger
	ctx    context.Context
}

// Option configures optional behaviour of a BatchBuffer.
type Option func(*options)

// WithLogger sets the logger used for lifecycle and batch events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContext threads an external cancellation signal through the buffer.
// Once ctx is done, Feed fails, the consumer stops waiting for batches and
// pending items may be dropped. The context is also passed to the Consumer.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
		ctx:    context.Background(),
	}
}
