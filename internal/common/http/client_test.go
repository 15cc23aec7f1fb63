package http

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"brreg-lookup/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, retries int) *Client {
	return NewClient(Config{
		BaseURL:    baseURL,
		UserAgent:  "brreg-lookup/test",
		Timeout:    time.Second,
		MaxRetries: retries,
	})
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/enheter", r.URL.Path)
		assert.Equal(t, "FJORDKRAFT", r.URL.Query().Get("navn"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "brreg-lookup/test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL+"/api/", 0)
	defer client.Close()

	body, err := client.Get(context.Background(), "enheter", "/enheter", url.Values{"navn": {"FJORDKRAFT"}, "size": {"20"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestClient_Get_NotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := newTestClient(server.URL, 2).Get(context.Background(), "enheter", "enheter/923609016", nil)
		assert.ErrorIs(t, err, ErrNotFound)
		server.Close()
	}
}

func TestClient_Get_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 1).Get(context.Background(), "underenheter", "underenheter", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Get_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).Get(context.Background(), "enheter", "enheter", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransport))
	assert.False(t, errors.IsRetryable(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Get_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).Get(context.Background(), "enheter", "enheter", nil)
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, http.StatusBadGateway, stdErr.Metadata["statusCode"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Get_RetriesWaitForRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	// one request every two seconds, so a retry cannot get a token in time
	client := NewClient(Config{
		BaseURL:    server.URL,
		Timeout:    time.Second,
		MaxRetries: 1,
		RateLimit:  0.5,
		RateBurst:  1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Get(ctx, "enheter", "enheter", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Get_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Get(context.Background(), "enheter", "enheter/923609016", nil)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceTimeout), "got %v", err)
}

func TestClient_Get_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL, 2).Get(ctx, "underenheter", "underenheter", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceTimeout), "got %v", err)
}

func TestClient_Get_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	_, err := newTestClient(baseURL, 0).Get(context.Background(), "enheter", "enheter", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTransport), "got %v", err)
}

func TestClient_BuildURL(t *testing.T) {
	c := newTestClient("https://data.brreg.no/enhetsregisteret/api/", 0)

	assert.Equal(t, "https://data.brreg.no/enhetsregisteret/api/enheter/923609016", c.buildURL("/enheter/923609016", nil))
	assert.Equal(t, "https://data.brreg.no/enhetsregisteret/api/enheter?navn=BR%C3%98DRENE+AS&size=5",
		c.buildURL("enheter", url.Values{"navn": {"BRØDRENE AS"}, "size": {"5"}}))
}
