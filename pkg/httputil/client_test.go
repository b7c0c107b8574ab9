package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/logger"
)

func newTestClient() *Client {
	cfg := &config.Config{Fetch: config.FetchConfig{Timeout: 5 * time.Second}}
	return New(cfg, logger.Nop())
}

func TestNew(t *testing.T) {
	client := newTestClient()
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.Equal(t, DefaultUserAgent, client.userAgent)

	defaulted := New(&config.Config{}, logger.Nop())
	assert.Equal(t, 30*time.Second, defaulted.httpClient.Timeout)
}

func TestGetJSON_SendsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "quant-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"SPY","bars":252}`))
	}))
	defer server.Close()

	var out struct {
		Symbol string `json:"symbol"`
		Bars   int    `json:"bars"`
	}
	err := newTestClient().WithUserAgent("quant-test").GetJSON(context.Background(), server.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "SPY", out.Symbol)
	assert.Equal(t, 252, out.Bars)
}

func TestGetBody_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient().DisableRetry().GetBody(context.Background(), server.URL)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRetryOn5xxAnd429(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&attempts, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`ok`))
		}
	}))
	defer server.Close()

	body, err := newTestClient().WithRetry(3, 10*time.Millisecond).GetBody(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRetry_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient().WithRetry(5, time.Second).Get(ctx, server.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsRetryableError(t *testing.T) {
	for code, want := range map[int]bool{200: false, 404: false, 429: true, 500: true, 503: true} {
		assert.Equal(t, want, IsRetryableError(code), "status %d", code)
	}
}
