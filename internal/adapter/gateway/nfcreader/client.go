package nfcreader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Errores del servicio lector NFC
var (
	ErrUnavailable = errors.New("servicio NFC no disponible")
	ErrNoCard      = errors.New("no se detectó ninguna tarjeta")
)

// ReaderStatus describe el estado reportado por el servicio lector
type ReaderStatus struct {
	Available bool   `json:"available"`
	Reader    string `json:"reader"`
	Message   string `json:"message"`
}

type waitRequest struct {
	Timeout int `json:"timeout"`
}

type waitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		UID string `json:"uid"`
	} `json:"data"`
}

// Client habla con el microservicio local que maneja el lector de
// tarjetas NFC
type Client struct {
	http     *resty.Client
	waitHTTP *resty.Client
	baseURL  string
}

// NewClient crea un cliente del servicio NFC. La espera de tarjeta es
// bloqueante, así que usa un cliente sin timeout fijo acotado por
// contexto en cada llamada.
func NewClient(baseURL string) *Client {
	http := resty.New().
		SetTimeout(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	waitHTTP := resty.New().
		SetHeader("Content-Type", "application/json")
	return &Client{http: http, waitHTTP: waitHTTP, baseURL: baseURL}
}

// Status consulta GET /status del servicio lector
func (c *Client) Status(ctx context.Context) (*ReaderStatus, error) {
	var status ReaderStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&status).
		Get(c.baseURL + "/status")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: lector respondió %d", ErrUnavailable, resp.StatusCode())
	}
	return &status, nil
}

// WaitForCard bloquea hasta que el lector detecte una tarjeta o venza el
// timeout. Retorna el UID de la tarjeta detectada.
func (c *Client) WaitForCard(ctx context.Context, timeout time.Duration) (string, error) {
	// margen sobre el timeout del lector para recibir su respuesta
	ctx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	var result waitResponse
	resp, err := c.waitHTTP.R().
		SetContext(ctx).
		SetBody(waitRequest{Timeout: int(timeout.Seconds())}).
		SetResult(&result).
		Post(c.baseURL + "/wait-for-card")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: lector respondió %d", ErrUnavailable, resp.StatusCode())
	}
	if !result.Success || result.Data.UID == "" {
		return "", ErrNoCard
	}
	return result.Data.UID, nil
}
