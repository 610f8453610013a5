package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/response"
	"github.com/huynhanx03/go-batchbuffer/pkg/mq/batcher"
)

type item struct {
	ID int `json:"id"`
}

type collector struct {
	mu      sync.Mutex
	batches [][]item
}

func (c *collector) Consume(_ context.Context, batch []item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, batch)
	return nil
}

func newServer(t *testing.T, batchSize int, cons batcher.Consumer[item]) (*gin.Engine, *batcher.BatchBuffer[item]) {
	t.Helper()
	buf, err := batcher.New[item](cons, batcher.Config{BatchSize: batchSize})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler[item](buf).Register(r)
	return r, buf
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()
	var out response.Response
	out.Data = data
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestFeed(t *testing.T) {
	cons := &collector{}
	r, buf := newServer(t, 2, cons)

	w := do(r, http.MethodPost, "/v1/items", `{"items":[{"id":1},{"id":2},{"id":3}]}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var res FeedResult
	out := decode(t, w, &res)
	assert.Equal(t, response.CodeAccepted, out.Code)
	assert.Equal(t, 3, res.Accepted)

	require.NoError(t, buf.Close())
	assert.Equal(t, [][]item{{{1}, {2}}, {{3}}}, cons.batches)
}

func TestFeed_BadRequests(t *testing.T) {
	r, buf := newServer(t, 2, &collector{})
	defer buf.Close()

	tests := []struct {
		name string
		body string
		code int
		want int
	}{
		{"malformed", `{"items":`, http.StatusBadRequest, response.CodeParamInvalid},
		{"empty items", `{"items":[]}`, http.StatusUnprocessableEntity, response.CodeValidationFailed},
		{"missing items", `{}`, http.StatusUnprocessableEntity, response.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/v1/items", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.want, decode(t, w, nil).Code)
		})
	}
}

func TestFeed_AfterClose(t *testing.T) {
	r, buf := newServer(t, 2, &collector{})
	require.NoError(t, buf.Close())

	w := do(r, http.MethodPost, "/v1/items", `{"items":[{"id":1}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	out := decode(t, w, nil)
	assert.Equal(t, response.CodeServiceUnavailable, out.Code)
	assert.Contains(t, out.Message, "accepted 0 of 1 items")
}

func TestFeed_ConsumerHalted(t *testing.T) {
	failing := batcher.ConsumerFunc[item](func(context.Context, []item) error {
		return errors.New("sink down")
	})
	r, buf := newServer(t, 1, failing)

	// The first batch is accepted, then the consumer halts.
	do(r, http.MethodPost, "/v1/items", `{"items":[{"id":1}]}`)
	<-buf.Done()

	w := do(r, http.MethodPost, "/v1/items", `{"items":[{"id":2}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w, nil).Message, "sink down")

	assert.Error(t, buf.Close())
}

func TestStatus(t *testing.T) {
	r, buf := newServer(t, 4, &collector{})
	defer buf.Close()

	do(r, http.MethodPost, "/v1/items", `{"items":[{"id":1},{"id":2},{"id":3},{"id":4},{"id":5}]}`)

	w := do(r, http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var st Status
	decode(t, w, &st)
	assert.Equal(t, 4, st.BatchSize)
	assert.Equal(t, batcher.StateAccepting, st.State)
	assert.Equal(t, uint64(5), st.Stats.Fed)
	assert.Equal(t, uint64(1), st.Stats.Emitted)
	assert.Equal(t, 1, st.Stats.Pending)
}

func TestHealth(t *testing.T) {
	r, buf := newServer(t, 2, &collector{})

	w := do(r, http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var h Health
	decode(t, w, &h)
	assert.Equal(t, batcher.StateAccepting, h.State)

	require.NoError(t, buf.Close())

	w = do(r, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	out := decode(t, w, nil)
	assert.Equal(t, response.CodeServiceUnavailable, out.Code)
	assert.Contains(t, out.Message, "ingest unavailable")
}

func TestHealth_ConsumerHalted(t *testing.T) {
	failing := batcher.ConsumerFunc[item](func(context.Context, []item) error {
		return errors.New("sink down")
	})
	r, buf := newServer(t, 1, failing)

	do(r, http.MethodPost, "/v1/items", `{"items":[{"id":1}]}`)
	<-buf.Done()

	w := do(r, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decode(t, w, nil).Message, "sink down")

	assert.Error(t, buf.Close())
}
