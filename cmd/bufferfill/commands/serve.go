package commands

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/ingest"
	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/middleware"
	"github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"
	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
	"github.com/huynhanx03/go-batchbuffer/pkg/unique"
	"github.com/huynhanx03/go-batchbuffer/pkg/utils"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept items over HTTP and write batches to a sink",
	Long: `Serve the ingest API backed by a batch buffer.

  POST /v1/items   {"items": [{...}, ...]}   feed items in order
  GET  /v1/status                            batch size, state and counters
  GET  /v1/health                            200 while accepting, 503 once closed or halted

Batches are written to the sink configured under "sink" (stdout, kafka,
redis, elasticsearch or mongodb). On SIGINT or SIGTERM the server stops
accepting requests and the buffer flushes its remainder before exit.

Example config (config.yaml):
  server:
    port: 8080
  batcher:
    batch_size: 100
  sink:
    kind: redis
    target: events
  redis:
    host: localhost
    port: 6379`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := settings.Default()
		if configPath != "" {
			loaded, err := settings.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		log, err := newLogger(&cfg.Logger)
		if err != nil {
			return err
		}
		defer log.Sync()

		return runServe(cmd.Context(), cfg, cmd.OutOrStdout(), log)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config (defaults apply when empty)")
}

func runServe(ctx context.Context, cfg *settings.Config, out io.Writer, log *zap.Logger) error {
	sink, release, err := buildSink(ctx, cfg, out, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			log.Warn("release sink", zap.Error(err))
		}
	}()

	cons := batcher.WithTimeout[Document](sink, utils.ToDuration(cfg.Sink.Timeout))
	buf, err := batcher.New[Document](cons, cfg.Batcher, batcher.WithLogger(log.Named("batcher")))
	if err != nil {
		return err
	}

	ids, err := unique.NewSnowflakeNode(cfg.Server.NodeID, nil)
	if err != nil {
		buf.Close()
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           newRouter[Document](cfg.Server.Mode, buf, ids, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	timeout := utils.ToDuration(cfg.Server.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}

		closeCtx, cancelClose := context.WithTimeout(context.Background(), timeout)
		defer cancelClose()
		return buf.CloseContext(closeCtx)
	})

	return g.Wait()
}

func newRouter[T any](mode string, buf ingest.Buffer[T], ids middleware.IDGenerator, log *zap.Logger) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID(ids), middleware.Logger(log.Named("http")))
	ingest.NewHandler[T](buf).Register(engine)
	return engine
}
