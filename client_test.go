package apidance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/key/test-key", r.URL.Path)
		w.Write([]byte("4999\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	n, err := c.CheckBalance(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4999, n)
}

func TestCheckBalance_NonNumericBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "key not found"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	_, err := c.CheckBalance(context.Background())
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
}

func TestCheckBalance_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)

	_, err := c.CheckBalance(context.Background())
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusNotFound, upErr.Status)
}
