package elasticsearch

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/huynhanx03/go-batchbuffer/pkg/settings"
)

// New creates an Elasticsearch client from settings.
func New(cfg settings.Elasticsearch) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return client, nil
}
