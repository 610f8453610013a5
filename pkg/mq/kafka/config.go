package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
	"github.com/huynhanx03/go-batchbuffer/pkg/utils"
)

const (
	defaultClientID     = "bufferfill"
	defaultTimeout      = 10 // seconds
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 // millis
)

// NewSyncProducer connects a synchronous producer to the configured brokers.
func NewSyncProducer(cfg settings.Kafka) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: no brokers", ErrInvalidConfig)
	}

	sc, err := newConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return p, nil
}

func newConfig(cfg settings.Kafka) (*sarama.Config, error) {
	sc := sarama.NewConfig()

	sc.ClientID = cfg.ClientID
	if sc.ClientID == "" {
		sc.ClientID = defaultClientID
	}

	// SyncProducer requires both to be returned.
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll

	sc.Producer.Timeout = utils.ToDuration(orDefault(cfg.Timeout, defaultTimeout))
	sc.Producer.Retry.Max = orDefault(cfg.MaxRetries, defaultMaxRetries)
	sc.Producer.Retry.Backoff = utils.ToDurationMs(orDefault(cfg.RetryBackoff, defaultRetryBackoff))

	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	if cfg.FlushFrequency > 0 {
		sc.Producer.Flush.Frequency = utils.ToDurationMs(cfg.FlushFrequency)
	}
	if cfg.FlushBytes > 0 {
		sc.Producer.Flush.Bytes = cfg.FlushBytes
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return sc, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
