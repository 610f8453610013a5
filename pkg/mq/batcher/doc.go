// Package batcher groups items fed by concurrent producers into fixed-size
// batches and delivers them, strictly one at a time and in emission order, to a
// single Consumer.
//
// A buffer is acquired, fed, and then deterministically closed:
//
//	buf, err := batcher.NewBatchBuffer(5, func(ctx context.Context, batch []int) error {
//	    return store.Save(ctx, batch)
//	})
//	if err != nil {
//	    return err
//	}
//	defer buf.Close()
//
// Close flushes the remaining partial batch and waits for the Consumer.
// A buffer that is dropped without Close is flushed on a best-effort basis
// after it has been garbage collected.
package batcher
