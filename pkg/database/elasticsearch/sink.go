package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/huynhanx03/go-batchbuffer/pkg/hash"
)

// BulkSink writes every batch to one index with a single Bulk request.
// It implements batcher.Consumer.
type BulkSink[T any] struct {
	transport esapi.Transport
	index     string
	refresh   string
	idFunc    func(T) string
	contentID bool
}

// BulkOption configures a BulkSink.
type BulkOption[T any] func(*BulkSink[T])

// WithRefresh sets the refresh parameter of each Bulk request ("true", "false" or "wait_for").
func WithRefresh[T any](refresh string) BulkOption[T] {
	return func(s *BulkSink[T]) { s.refresh = refresh }
}

// WithDocumentID derives the document _id from an item. Without it Elasticsearch generates ids.
func WithDocumentID[T any](fn func(T) string) BulkOption[T] {
	return func(s *BulkSink[T]) { s.idFunc = fn }
}

// WithContentID uses a hash of the encoded item as its _id, so re-sending a
// batch overwrites instead of duplicating. WithDocumentID takes precedence.
func WithContentID[T any]() BulkOption[T] {
	return func(s *BulkSink[T]) { s.contentID = true }
}

// NewBulkSink creates a sink writing to index. transport is usually an *elasticsearch.Client.
func NewBulkSink[T any](transport esapi.Transport, index string, opts ...BulkOption[T]) *BulkSink[T] {
	s := &BulkSink[T]{transport: transport, index: index}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type bulkAction struct {
	Index bulkTarget `json:"index"`
}

type bulkTarget struct {
	ID string `json:"_id,omitempty"`
}

type bulkResponse struct {
	Errors bool                        `json:"errors"`
	Items  []map[string]bulkItemResult `json:"items"`
}

type bulkItemResult struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

// Consume indexes the batch.
func (s *BulkSink[T]) Consume(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	body, err := s.encode(batch)
	if err != nil {
		return err
	}

	req := esapi.BulkRequest{
		Index:   s.index,
		Body:    bytes.NewReader(body),
		Refresh: s.refresh,
	}

	res, err := req.Do(ctx, s.transport)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBulkRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrBulkRequestFailed, res.Status())
	}

	var out bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if !out.Errors {
		return nil
	}

	return rejected(out.Items)
}

func (s *BulkSink[T]) encode(batch []T) ([]byte, error) {
	var buf bytes.Buffer

	for _, item := range batch {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
		}

		action := bulkAction{}
		switch {
		case s.idFunc != nil:
			action.Index.ID = s.idFunc(item)
		case s.contentID:
			action.Index.ID = hash.ContentID(data)
		}
		meta, err := json.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
		}

		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(data)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

// rejected reports the first failed item and how many failed in total.
func rejected(items []map[string]bulkItemResult) error {
	var (
		failed int
		first  bulkItemResult
	)
	for _, item := range items {
		for _, result := range item {
			if result.Error == nil && result.Status < 300 {
				continue
			}
			if failed == 0 {
				first = result
			}
			failed++
		}
	}

	if failed == 0 {
		return fmt.Errorf("%w: errors flag set without failed items", ErrBulkItemFailed)
	}
	if first.Error != nil {
		return fmt.Errorf("%w: %d of %d failed, first %q: %s: %s",
			ErrBulkItemFailed, failed, len(items), first.ID, first.Error.Type, first.Error.Reason)
	}
	return fmt.Errorf("%w: %d of %d failed, first %q: status %d",
		ErrBulkItemFailed, failed, len(items), first.ID, first.Status)
}
