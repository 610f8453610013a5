package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Inserter is the part of *mongo.Collection used by InsertSink.
type Inserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// InsertSink stores each batch with one ordered InsertMany.
type InsertSink[T any] struct {
	coll Inserter
}

func NewInsertSink[T any](coll Inserter) *InsertSink[T] {
	return &InsertSink[T]{coll: coll}
}

// Consume inserts the batch. Ordered inserts stop at the first failed document.
func (s *InsertSink[T]) Consume(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}

	res, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) {
			return fmt.Errorf("%w: %d of %d documents rejected: %v", ErrInsertFailed, len(bwe.WriteErrors), len(batch), err)
		}
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	if res != nil && len(res.InsertedIDs) != len(batch) {
		return fmt.Errorf("%w: inserted %d of %d documents", ErrInsertFailed, len(res.InsertedIDs), len(batch))
	}

	return nil
}
