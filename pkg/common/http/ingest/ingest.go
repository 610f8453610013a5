// Package ingest exposes a batch buffer over HTTP.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-batchbuffer/pkg/common/apperr"
	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/handler"
	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/response"
	"github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"
)

const serviceName = "ingest"

// Buffer is the part of *batcher.BatchBuffer the API needs.
type Buffer[T any] interface {
	Feed(item T) error
	BatchSize() int
	Stats() batcher.Stats
	Err() error
}

type FeedRequest[T any] struct {
	Items []T `json:"items" validate:"required,min=1,max=10000"`
}

type FeedResult struct {
	Accepted int `json:"accepted"`
}

type Status struct {
	BatchSize int           `json:"batch_size"`
	State     batcher.State `json:"state"`
	Stats     batcher.Stats `json:"stats"`
}

type Health struct {
	State batcher.State `json:"state"`
}

type Handler[T any] struct {
	buf Buffer[T]
}

func NewHandler[T any](buf Buffer[T]) *Handler[T] {
	return &Handler[T]{buf: buf}
}

// Register mounts POST /v1/items, GET /v1/status and GET /v1/health.
func (h *Handler[T]) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/items", handler.Wrap(response.CodeAccepted, h.Feed))
	v1.GET("/status", handler.WrapQuery(h.Status))
	v1.GET("/health", handler.WrapQuery(h.Health))
}

// Feed feeds items in request order and stops at the first failure.
func (h *Handler[T]) Feed(_ context.Context, req *FeedRequest[T]) (FeedResult, error) {
	for i, item := range req.Items {
		if err := h.buf.Feed(item); err != nil {
			return FeedResult{Accepted: i}, mapFeedError(fmt.Errorf("accepted %d of %d items: %w", i, len(req.Items), err))
		}
	}
	return FeedResult{Accepted: len(req.Items)}, nil
}

func (h *Handler[T]) Status(context.Context) (Status, error) {
	stats := h.buf.Stats()
	return Status{BatchSize: h.buf.BatchSize(), State: stats.State, Stats: stats}, nil
}

// Health reports 503 once the buffer no longer accepts items.
func (h *Handler[T]) Health(context.Context) (Health, error) {
	state := h.buf.Stats().State
	cause := h.buf.Err()
	if cause == nil && state != batcher.StateAccepting {
		cause = batcher.ErrClosedBuffer
	}
	if cause != nil {
		return Health{State: state}, apperr.NewError(serviceName, response.CodeServiceUnavailable, apperr.MsgUnavailable, http.StatusServiceUnavailable, cause)
	}
	return Health{State: state}, nil
}

func mapFeedError(err error) error {
	switch {
	case errors.Is(err, batcher.ErrClosedBuffer),
		errors.Is(err, batcher.ErrConsumerHalted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return apperr.MapError(serviceName, err, response.CodeServiceUnavailable, apperr.MsgFeedFailed, http.StatusServiceUnavailable)
	default:
		return apperr.MapError(serviceName, err, response.CodeInternalServer, apperr.MsgFeedFailed, http.StatusInternalServerError)
	}
}
