package httpclient

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
)

func TestDoJSON_RetriesIdempotentOn5xx(t *testing.T) {
	var calls atomic.Int32
	keys := make(chan string, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get("Idempotency-Key")
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	require.NoError(t, err)
	c.Backoff = time.Millisecond

	var out struct {
		OK bool `json:"ok"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/mint", map[string]string{"Idempotency-Key": "k1"}, map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, int32(3), calls.Load())

	close(keys)
	for k := range keys {
		require.Equal(t, "k1", k)
	}
}

func TestDoJSON_NoRetryWithoutKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	c.Backoff = time.Millisecond

	err = c.DoJSON(context.Background(), http.MethodPost, "/x", nil, nil, nil)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusInternalServerError, he.StatusCode)
	require.Equal(t, "boom", he.Body)
	require.Equal(t, int32(1), calls.Load())
}

func TestDoJSON_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestNewWithBaseURL_Validation(t *testing.T) {
	_, err := NewWithBaseURL("not a url", time.Second)
	require.Error(t, err)

	_, err = NewWithBaseURL("ftp://ledger.local", time.Second)
	require.Error(t, err)

	c, err := NewWithBaseURL("", time.Second)
	require.NoError(t, err)
	require.Empty(t, c.BaseURL)

	err = c.DoJSON(context.Background(), http.MethodGet, "/rel", nil, nil, nil)
	require.Error(t, err)
}
