package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"
)

type runOptions struct {
	batchSize int
	count     int
	parallel  int
	delay     time.Duration
}

var runOpts = runOptions{
	batchSize: 5,
	count:     39,
	parallel:  runtime.NumCPU(),
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Feed integers in parallel and print every batch",
	Long: `Feed the values 0..count-1 from parallel goroutines into a batch buffer.

Every full batch is printed as "Got Value:N" lines by the single consumer.
The remainder is flushed when all values have been fed.

Examples:
  bufferfill run
  bufferfill run --count 100 --batch-size 10 --parallel 4
  bufferfill run --delay 500ms --log-level debug`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(nil)
		if err != nil {
			return err
		}
		defer log.Sync()

		return runDemo(cmd.Context(), cmd.OutOrStdout(), log, runOpts)
	},
}

func init() {
	runCmd.Flags().IntVarP(&runOpts.batchSize, "batch-size", "b", runOpts.batchSize, "items per batch")
	runCmd.Flags().IntVarP(&runOpts.count, "count", "n", runOpts.count, "number of values to feed")
	runCmd.Flags().IntVarP(&runOpts.parallel, "parallel", "p", runOpts.parallel, "concurrent feeders")
	runCmd.Flags().DurationVar(&runOpts.delay, "delay", 0, "sleep before each feed")
}

// syncWriter serializes writes from the feeders and the consumer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

func runDemo(ctx context.Context, out io.Writer, log *zap.Logger, o runOptions) error {
	if o.parallel <= 0 {
		o.parallel = 1
	}
	w := &syncWriter{w: out}

	buf, err := batcher.NewBatchBuffer[int](o.batchSize, func(_ context.Context, batch []int) error {
		for _, v := range batch {
			w.printf("Got Value:%d\n", v)
		}
		return nil
	}, batcher.WithLogger(log))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallel)
	for v := range o.count {
		g.Go(func() error {
			if o.delay > 0 {
				select {
				case <-time.After(o.delay):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			w.printf("Feeding value %d to buffer\n", v)
			return buf.Feed(v)
		})
	}

	feedErr := g.Wait()
	closeErr := buf.Close()
	if feedErr != nil {
		if closeErr != nil {
			log.Warn("close after failed feed", zap.Error(closeErr))
		}
		return feedErr
	}
	return closeErr
}
