package config

import (
	"os"
	"strconv"
	"time"
)

// Config contiene la configuración de la aplicación cargada desde el ambiente
type Config struct {
	HTTPAddr        string
	RedisAddr       string
	EventChannel    string
	NFCServiceURL   string
	BridgeURL       string
	NFCWaitTimeout  time.Duration
	GatewayTimeout  time.Duration
	MonitorInterval time.Duration
}

// Load construye la configuración desde variables de ambiente con valores por defecto
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		EventChannel:    getenv("EVENT_CHANNEL", "lavanderia:events"),
		NFCServiceURL:   getenv("NFC_SERVICE_URL", "http://localhost:5001"),
		BridgeURL:       getenv("ESP32_BRIDGE_URL", "http://localhost:5002"),
		NFCWaitTimeout:  getenvDuration("NFC_WAIT_TIMEOUT", 15*time.Second),
		GatewayTimeout:  getenvDuration("GATEWAY_TIMEOUT", 10*time.Second),
		MonitorInterval: getenvDuration("MONITOR_INTERVAL", 30*time.Second),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvDuration interpreta el valor como segundos
func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
