package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-batchbuffer/pkg/logger"
	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
)

var (
	// Global flags
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "bufferfill",
	Short: "Group concurrently fed items into fixed-size batches",
	Long: `bufferfill - a concurrent batching buffer.

Producers feed single items; every time the buffer holds a full batch it is
handed to one consumer, and the remainder is flushed on shutdown.

Commands:
  run    feed integers from parallel goroutines and print each batch
  serve  accept items over HTTP and write batches to a sink`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the logger, applying the --log-level override.
// An empty level with no config disables logging.
func newLogger(cfg *settings.Logger) (*zap.Logger, error) {
	if cfg == nil {
		if logLevel == "" {
			return zap.NewNop(), nil
		}
		cfg = &settings.Logger{}
	}

	lc := *cfg
	if logLevel != "" {
		lc.LogLevel = logLevel
	}
	return logger.New(lc)
}
