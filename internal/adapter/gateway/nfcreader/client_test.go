package nfcreader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ReaderStatus{Available: true, Reader: "ACR122U"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Available)
	assert.Equal(t, "ACR122U", status.Reader)
}

func TestStatusServicioCaido(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Status(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWaitForCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wait-for-card", r.URL.Path)

		var req waitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10, req.Timeout)

		resp := waitResponse{Success: true}
		resp.Data.UID = "04:AA:BB:CC"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	uid, err := client.WaitForCard(context.Background(), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "04:AA:BB:CC", uid)
}

func TestWaitForCardSinTarjeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(waitResponse{Success: false, Message: "timeout"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.WaitForCard(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrNoCard)
}

func TestWaitForCardErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.WaitForCard(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrUnavailable)
}
