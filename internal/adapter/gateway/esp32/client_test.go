package esp32

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

func TestStartEnviaPayloadAlBridge(t *testing.T) {
	var got bridgePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send-to-esp32", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bridgeResponse{Success: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	err := client.Start(context.Background(), "http://192.168.0.10", "m1", start, end)
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.0.10", got.ESP32URL)
	assert.Equal(t, "m1", got.LaundryData.WasherID)
	assert.Equal(t, "starting", got.LaundryData.Status)
	assert.Equal(t, "2026-09-01T14:00:00Z", got.LaundryData.StartTime)
	assert.Equal(t, "2026-09-01T14:30:00Z", got.LaundryData.EndTime)
}

func TestStopMarcaFinished(t *testing.T) {
	var got bridgePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bridgeResponse{Success: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, client.Stop(context.Background(), "http://192.168.0.10", "m1"))
	assert.Equal(t, "finished", got.LaundryData.Status)
}

func TestStartRechazadoPorElBridge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(bridgeResponse{Success: false, Message: "dispositivo fuera de línea"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.Start(context.Background(), "http://192.168.0.10", "m1", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActivationFailed)
	assert.Contains(t, err.Error(), "dispositivo fuera de línea")
}

func TestStartErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.Start(context.Background(), "http://192.168.0.10", "m1", time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrActivationFailed)
}

func TestStartBridgeCaido(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	err := client.Start(context.Background(), "http://192.168.0.10", "m1", time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrBridgeUnavailable)
}
