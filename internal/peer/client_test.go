package peer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJSONGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/metadata/tables/t1", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.Header.Get("X-Federation-Internal"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data_type": "phenopacket", "id": "t1"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second, 0, nil)
	require.NoError(t, err)

	extra := http.Header{}
	extra.Set("X-Federation-Internal", "1")

	result, err := client.FetchJSON(context.Background(), http.MethodGet,
		"api/metadata/tables/t1", nil, "Bearer token", extra)
	require.NoError(t, err)

	doc, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "phenopacket", doc["data_type"])
}

func TestFetchJSONPostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second, 0, nil)
	require.NoError(t, err)

	_, err = client.FetchJSON(context.Background(), http.MethodPost,
		"/api/x/tables/t/search", map[string]interface{}{"query": true}, "", nil)
	require.NoError(t, err)
}

func TestFetchJSONRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`true`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second, 3, nil)
	require.NoError(t, err)

	result, err := client.FetchJSON(context.Background(), http.MethodGet, "x", nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchJSONClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second, 5, nil)
	require.NoError(t, err)

	_, err = client.FetchJSON(context.Background(), http.MethodGet, "x", nil, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", time.Second, 0, nil)
	require.Error(t, err)
}
