package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-batchbuffer/pkg/database/elasticsearch"
	"github.com/huynhanx03/go-batchbuffer/pkg/database/mongodb"
	"github.com/huynhanx03/go-batchbuffer/pkg/database/redis"
	"github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"
	"github.com/huynhanx03/go-batchbuffer/pkg/mq/kafka"
	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
)

// Document is the item type accepted by the HTTP API. It encodes as both
// JSON and BSON, so every sink can store it.
type Document = map[string]any

const (
	sinkStdout        = "stdout"
	sinkKafka         = "kafka"
	sinkRedis         = "redis"
	sinkElasticsearch = "elasticsearch"
	sinkMongoDB       = "mongodb"
)

var errUnknownSink = errors.New("unknown sink kind")

// writerSink writes each document of a batch as one JSON line.
type writerSink struct {
	enc *json.Encoder
}

func (s writerSink) Consume(_ context.Context, batch []Document) error {
	for _, doc := range batch {
		if err := s.enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

// buildSink connects the sink selected by cfg.Sink. The returned func releases it.
func buildSink(ctx context.Context, cfg *settings.Config, out io.Writer, log *zap.Logger) (batcher.Consumer[Document], func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }
	target := cfg.Sink.Target

	log.Info("connecting sink", zap.String("kind", cfg.Sink.Kind), zap.String("target", target))

	switch cfg.Sink.Kind {
	case sinkStdout:
		return writerSink{enc: json.NewEncoder(out)}, noop, nil

	case sinkKafka:
		p, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			return nil, nil, err
		}
		prod := kafka.NewProducer[Document](p, target)
		return prod, prod.Close, nil

	case sinkRedis:
		client, err := redis.NewConnection(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewListSink[Document](client, target, cfg.Redis.MaxListLength), client.Close, nil

	case sinkElasticsearch:
		client, err := elasticsearch.New(cfg.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		sink := elasticsearch.NewBulkSink[Document](client, target,
			elasticsearch.WithRefresh[Document](cfg.Elasticsearch.Refresh),
			elasticsearch.WithContentID[Document](),
		)
		return sink, noop, nil

	case sinkMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDB.Database).Collection(target)
		release := func() error { return client.Disconnect(context.Background()) }
		return mongodb.NewInsertSink[Document](coll), release, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", errUnknownSink, cfg.Sink.Kind)
}
