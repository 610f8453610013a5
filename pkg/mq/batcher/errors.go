package batcher

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidConfiguration = errors.New("batcher: invalid configuration")
	ErrClosedBuffer         = errors.New("batcher: feed on closed buffer")
	ErrAlreadyClosed        = errors.New("batcher: buffer already closed")
	ErrConsumerHalted       = errors.New("batcher: consumer halted")
)

// HandlerError reports a batch the Consumer failed to process.
// Batches queued behind it are never delivered.
type HandlerError struct {
	Seq  uint64 // 1-based sequence number of the failed batch
	Size int    // number of items in the failed batch
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("batcher: consumer failed on batch %d (%d items): %v", e.Seq, e.Size, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking Consumer.
type PanicError struct {
	Panic any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Panic)
}
