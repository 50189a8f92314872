package esp32

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Errores de comunicación con el bridge de máquinas
var (
	ErrBridgeUnavailable = errors.New("bridge de máquinas no disponible")
	ErrActivationFailed  = errors.New("el dispositivo rechazó la activación")
)

// laundryData describe el ciclo que la máquina debe ejecutar
type laundryData struct {
	WasherID  string `json:"washer_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

// bridgePayload es el cuerpo que espera el bridge en POST /send-to-esp32
type bridgePayload struct {
	ESP32URL    string      `json:"esp32_url"`
	LaundryData laundryData `json:"laundry_data"`
}

// bridgeResponse es la respuesta del bridge
type bridgeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client habla con el bridge HTTP que reenvía comandos a los
// controladores ESP32 de las máquinas
type Client struct {
	http      *resty.Client
	bridgeURL string
}

// NewClient crea un cliente del bridge con timeout propio
func NewClient(bridgeURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http, bridgeURL: bridgeURL}
}

// Start pide al dispositivo arrancar un ciclo entre start y end
func (c *Client) Start(ctx context.Context, deviceURL, machineID string, start, end time.Time) error {
	return c.send(ctx, deviceURL, machineID, start, end, "starting")
}

// Stop pide al dispositivo terminar el ciclo en curso
func (c *Client) Stop(ctx context.Context, deviceURL, machineID string) error {
	now := time.Now().UTC()
	return c.send(ctx, deviceURL, machineID, now, now, "finished")
}

func (c *Client) send(ctx context.Context, deviceURL, machineID string, start, end time.Time, status string) error {
	payload := bridgePayload{
		ESP32URL: deviceURL,
		LaundryData: laundryData{
			WasherID:  machineID,
			StartTime: start.UTC().Format(time.RFC3339),
			EndTime:   end.UTC().Format(time.RFC3339),
			Status:    status,
		},
	}

	var result bridgeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post(c.bridgeURL + "/send-to-esp32")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: bridge respondió %d", ErrActivationFailed, resp.StatusCode())
	}
	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("%w: %s", ErrActivationFailed, result.Message)
		}
		return ErrActivationFailed
	}
	return nil
}
