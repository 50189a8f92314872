package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDeviceNotConfigured es retornado cuando no hay URL configurada para el esp32_id
var ErrDeviceNotConfigured = errors.New("ESP32 sin URL configurada")

// ESP32ConfigRepository resuelve la URL del controlador físico de una
// máquina a partir de su esp32_id (colección esp32_config del sistema
// original)
type ESP32ConfigRepository struct {
	db *pgxpool.Pool
}

// NewESP32ConfigRepository crea una nueva instancia de ESP32ConfigRepository
func NewESP32ConfigRepository(db *pgxpool.Pool) *ESP32ConfigRepository {
	return &ESP32ConfigRepository{db: db}
}

// DeviceURL retorna la URL del dispositivo para un esp32_id
func (r *ESP32ConfigRepository) DeviceURL(ctx context.Context, esp32ID string) (string, error) {
	var url string
	err := r.db.QueryRow(ctx,
		"SELECT device_url FROM esp32_config WHERE esp32_id = $1", esp32ID).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrDeviceNotConfigured
		}
		return "", fmt.Errorf("error al buscar configuración ESP32: %w", err)
	}
	return url, nil
}

// Upsert registra o actualiza la URL de un dispositivo
func (r *ESP32ConfigRepository) Upsert(ctx context.Context, esp32ID, deviceURL, description string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO esp32_config (esp32_id, device_url, description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (esp32_id) DO UPDATE SET device_url = EXCLUDED.device_url,
		                                      description = EXCLUDED.description`,
		esp32ID, deviceURL, description)
	if err != nil {
		return fmt.Errorf("error al guardar configuración ESP32: %w", err)
	}
	return nil
}
