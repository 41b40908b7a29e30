package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() Options {
	return Options{Timeout: 2 * time.Second, RetryMax: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: 5 * time.Millisecond}
}

func TestDo_SendsBodyAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(b))
		_, _ = w.Write([]byte("  0xabc\n"))
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), New(fastOptions()), http.MethodPost, srv.URL, []byte("payload"), "application/octet-stream")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "0xabc", string(resp.Body))
}

func TestDo_RetriesServerErrorsAndKeepsLastResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), New(fastOptions()), http.MethodGet, srv.URL, nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.Status)
	assert.Equal(t, "upstream down", string(resp.Body))
	assert.EqualValues(t, 3, calls.Load())
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), New(fastOptions()), http.MethodGet, srv.URL, nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.False(t, resp.OK())
	assert.EqualValues(t, 1, calls.Load())
}

func TestDo_TransportError(t *testing.T) {
	_, err := Do(context.Background(), New(fastOptions()), http.MethodGet, "http://127.0.0.1:1", nil, "")
	require.Error(t, err)
}
