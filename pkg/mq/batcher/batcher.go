package batcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var validate = validator.New()

// BatchBuffer groups items fed by concurrent producers into fixed-size batches
// and hands each batch to a Consumer running on a single dedicated goroutine.
//
// Behavior:
//   - Multiple goroutines can call Feed() concurrently.
//   - Items are appended to one pending stripe under a mutex. The Feed call that
//     fills the stripe emits it as a batch; no other caller can cross the same
//     boundary.
//   - Batches are consumed one at a time, in the order they were emitted.
//   - Close() emits the remaining partial batch (if any) and blocks until the
//     Consumer has processed everything already emitted.
//   - A Consumer error halts the buffer: batches still queued are dropped and
//     the error is returned by Close().
type BatchBuffer[T any] struct {
	*buffer[T]
}

type buffer[T any] struct {
	cfg  Config
	cons Consumer[T]
	log  *zap.Logger
	ctx  context.Context

	// mu guards pending and state transitions out of StateAccepting.
	mu       sync.Mutex
	pending  *stripe[T]
	state    atomic.Int32
	pendingN atomic.Int64

	intake chan []T
	done   chan struct{}
	err    error // written by the worker before done is closed

	fed      atomic.Uint64
	emitted  atomic.Uint64
	consumed atomic.Uint64
}

// Stats is a point-in-time snapshot of a BatchBuffer.
type Stats struct {
	Fed      uint64 `json:"fed"`      // items accepted by Feed
	Emitted  uint64 `json:"emitted"`  // batches handed to the intake
	Consumed uint64 `json:"consumed"` // batches processed successfully
	Pending  int    `json:"pending"`  // items waiting for the next boundary
	State    State  `json:"state"`
}

// New creates a BatchBuffer and starts its consumer goroutine.
// The caller must Close the buffer to flush pending items.
func New[T any](cons Consumer[T], cfg Config, opts ...Option) (*BatchBuffer[T], error) {
	if cons == nil {
		return nil, fmt.Errorf("%w: nil consumer", ErrInvalidConfiguration)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	b := &buffer[T]{
		cfg:     cfg,
		cons:    cons,
		log:     o.logger.With(zap.Int("batch_size", cfg.BatchSize)),
		ctx:     o.ctx,
		pending: newStripe[T](cfg.BatchSize),
		intake:  make(chan []T, cfg.QueueSize),
		done:    make(chan struct{}),
	}

	go b.run()

	h := &BatchBuffer[T]{buffer: b}
	runtime.AddCleanup(h, func(b *buffer[T]) { b.abandon() }, b)

	return h, nil
}

// NewBatchBuffer creates a BatchBuffer calling onBatchFull for every batch.
func NewBatchBuffer[T any](batchSize int, onBatchFull ConsumerFunc[T], opts ...Option) (*BatchBuffer[T], error) {
	if onBatchFull == nil {
		return nil, fmt.Errorf("%w: nil consumer", ErrInvalidConfiguration)
	}
	return New[T](onBatchFull, Config{BatchSize: batchSize}, opts...)
}

// Feed adds an item to the buffer.
// It may block while a full batch waits for room in the intake queue.
// Returns ErrClosedBuffer once Close has been called.
func (b *buffer[T]) Feed(item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.State() != StateAccepting {
		return ErrClosedBuffer
	}
	if b.halted() {
		return b.haltedErr()
	}
	if err := b.ctx.Err(); err != nil {
		return errors.Wrap(err, "batcher: feed")
	}

	b.fed.Add(1)
	batch := b.pending.push(item)
	b.pendingN.Store(int64(b.pending.size()))
	if batch == nil {
		return nil
	}

	return b.emitLocked(context.Background(), batch)
}

// emitLocked hands a batch to the consumer. Called with mu held so that
// batches enter the intake in the order their boundaries were crossed.
// The batch is dropped when ctx is done before the intake has room.
func (b *buffer[T]) emitLocked(ctx context.Context, batch []T) error {
	select {
	case b.intake <- batch:
		seq := b.emitted.Add(1)
		b.log.Debug("batch emitted", zap.Uint64("seq", seq), zap.Int("size", len(batch)))
		return nil
	case <-b.done:
		b.log.Warn("batch dropped, consumer halted", zap.Int("size", len(batch)))
		return b.haltedErr()
	case <-b.ctx.Done():
		b.log.Warn("batch dropped, buffer canceled", zap.Int("size", len(batch)))
		return errors.Wrap(b.ctx.Err(), "batcher: emit")
	case <-ctx.Done():
		b.log.Warn("batch dropped, emit abandoned", zap.Int("size", len(batch)))
		return errors.Wrap(ctx.Err(), "batcher: emit")
	}
}

// Close stops accepting items, flushes the pending partial batch and waits
// for the consumer to process every emitted batch.
// It returns the consumer's error, if any. A second call returns ErrAlreadyClosed.
func (b *buffer[T]) Close() error {
	return b.CloseContext(context.Background())
}

// CloseContext is like Close but stops waiting when ctx is done.
// The consumer keeps draining in that case; Done and Err report the outcome.
func (b *buffer[T]) CloseContext(ctx context.Context) error {
	b.mu.Lock()
	if b.State() != StateAccepting {
		b.mu.Unlock()
		return ErrAlreadyClosed
	}
	b.state.Store(int32(StateDraining))

	if rest := b.pending.drain(); rest != nil {
		b.pendingN.Store(0)
		if err := b.emitLocked(ctx, rest); err != nil {
			b.log.Warn("final batch not delivered", zap.Int("size", len(rest)), zap.Error(err))
		}
	}
	close(b.intake)
	b.mu.Unlock()

	b.log.Info("batch buffer draining", zap.Uint64("emitted", b.emitted.Load()))

	select {
	case <-b.done:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "batcher: close")
	}

	b.markCompleted()
	b.log.Info("batch buffer closed", zap.Uint64("consumed", b.consumed.Load()), zap.Error(b.err))

	return b.err
}

// run is the consumer loop. It is the only caller of the Consumer.
func (b *buffer[T]) run() {
	defer b.markCompleted()
	defer close(b.done)

	var seq uint64
	for {
		// Cancellation wins over queued batches.
		if b.ctx.Err() != nil {
			b.stopCanceled()
			return
		}

		select {
		case batch, ok := <-b.intake:
			if !ok {
				b.log.Debug("intake drained", zap.Uint64("batches", seq))
				return
			}

			seq++
			if err := b.consume(seq, batch); err != nil {
				b.err = err
				b.log.Error("consumer failed, halting",
					zap.Uint64("seq", seq),
					zap.Int("size", len(batch)),
					zap.Int("dropped_batches", len(b.intake)),
					zap.Error(err),
				)
				return
			}
			b.consumed.Add(1)

		case <-b.ctx.Done():
			b.stopCanceled()
			return
		}
	}
}

func (b *buffer[T]) stopCanceled() {
	b.err = errors.Wrap(b.ctx.Err(), "batcher: consumer canceled")
	b.log.Warn("consumer canceled", zap.Int("dropped_batches", len(b.intake)))
}

// consume invokes the Consumer, converting errors and panics into a HandlerError.
func (b *buffer[T]) consume(seq uint64, batch []T) (err error) {
	size := len(batch)

	defer func() {
		if p := recover(); p != nil {
			err = &HandlerError{Seq: seq, Size: size, Err: PanicError{Panic: p}}
		}
	}()

	if cerr := b.cons.Consume(b.ctx, batch); cerr != nil {
		return &HandlerError{Seq: seq, Size: size, Err: cerr}
	}

	b.log.Debug("batch consumed", zap.Uint64("seq", seq), zap.Int("size", size))
	return nil
}

// abandon is the safety net for a buffer that became unreachable without Close.
func (b *buffer[T]) abandon() {
	if b.State() != StateAccepting {
		return
	}
	b.log.Warn("batch buffer was never closed, flushing remainder", zap.Int64("pending", b.pendingN.Load()))

	go func() {
		if err := b.Close(); err != nil && !errors.Is(err, ErrAlreadyClosed) {
			b.log.Error("flush of abandoned buffer failed", zap.Error(err))
		}
	}()
}

func (b *buffer[T]) markCompleted() {
	b.state.CompareAndSwap(int32(StateDraining), int32(StateCompleted))
}

func (b *buffer[T]) halted() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *buffer[T]) haltedErr() error {
	if b.err == nil {
		return ErrConsumerHalted
	}
	return fmt.Errorf("%w: %w", ErrConsumerHalted, b.err)
}

// BatchSize returns the configured number of items per full batch.
func (b *buffer[T]) BatchSize() int {
	return b.cfg.BatchSize
}

// State returns the current lifecycle state.
func (b *buffer[T]) State() State {
	return State(b.state.Load())
}

// Done is closed once the consumer goroutine has exited.
func (b *buffer[T]) Done() <-chan struct{} {
	return b.done
}

// Err returns the error that stopped the consumer, or nil while it is running
// or after a clean drain.
func (b *buffer[T]) Err() error {
	if !b.halted() {
		return nil
	}
	return b.err
}

// Stats returns a snapshot of the buffer counters.
func (b *buffer[T]) Stats() Stats {
	return Stats{
		Fed:      b.fed.Load(),
		Emitted:  b.emitted.Load(),
		Consumed: b.consumed.Load(),
		Pending:  int(b.pendingN.Load()),
		State:    b.State(),
	}
}
