package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	want := Response{
		Query: "acme plumbing leeds",
		Results: []Result{{
			Title:       "Acme Plumbing | Plumbers in Leeds",
			URL:         "https://acmeplumbing.co.uk",
			Description: "Family-run plumbing business.",
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "acme plumbing leeds", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := NewClient("test-key", WithBaseURL(srv.URL)).Search(context.Background(), "acme plumbing leeds")

	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "https://acmeplumbing.co.uk", got.Results[0].URL)
}

func TestSearch_Options(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "site:acme.co.uk contact", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		json.NewEncoder(w).Encode(Response{})
	}))
	defer srv.Close()

	_, err := NewClient("test-key", WithBaseURL(srv.URL)).
		Search(context.Background(), "contact", WithSiteFilter("acme.co.uk"), WithCount(3))
	require.NoError(t, err)
}

func TestSearch_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	got, err := NewClient("test-key", WithBaseURL(srv.URL)).Search(context.Background(), "gibberish")

	require.NoError(t, err)
	assert.Empty(t, got.Results)
}

func TestSearch_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Response{Results: []Result{{URL: "https://acme.co.uk"}}})
	}))
	defer srv.Close()

	got, err := NewClient("test-key", WithBaseURL(srv.URL)).Search(context.Background(), "acme")

	require.NoError(t, err)
	assert.Len(t, got.Results, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad query"}`))
	}))
	defer srv.Close()

	_, err := NewClient("test-key", WithBaseURL(srv.URL)).Search(context.Background(), "acme")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
