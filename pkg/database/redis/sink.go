package redis

import (
	"context"
	"encoding/json"
	"fmt"

	redisV9 "github.com/redis/go-redis/v9"
)

// ListSink appends every batch to a Redis list as JSON values.
// RPUSH and the optional LTRIM go out in one pipeline per batch.
type ListSink[T any] struct {
	client redisV9.Cmdable
	key    string
	maxLen int64
}

// NewListSink creates a sink pushing to key. A positive maxLen keeps only the
// newest maxLen entries.
func NewListSink[T any](client redisV9.Cmdable, key string, maxLen int64) *ListSink[T] {
	return &ListSink[T]{client: client, key: key, maxLen: maxLen}
}

// Consume pushes the batch in order.
func (s *ListSink[T]) Consume(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	values, err := encode(batch)
	if err != nil {
		return err
	}

	_, err = s.client.Pipelined(ctx, func(pipe redisV9.Pipeliner) error {
		pipe.RPush(ctx, s.key, values...)
		if s.maxLen > 0 {
			pipe.LTrim(ctx, s.key, -s.maxLen, -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPushFailed, err)
	}

	return nil
}

func encode[T any](batch []T) ([]interface{}, error) {
	values := make([]interface{}, len(batch))
	for i, item := range batch {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMarshalFailed, i, err)
		}
		values[i] = b
	}
	return values, nil
}
