package service

import (
	"context"
	"sync"
	"time"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// MonitorStatus es la foto del estado del monitor de finalización
type MonitorStatus struct {
	Running         bool       `json:"running"`
	IntervalSeconds int        `json:"interval_seconds"`
	LastCheck       *time.Time `json:"last_check,omitempty"`
	LastCount       int        `json:"last_count"`
}

// Monitor es el monitor de finalización de servicios: en cada tick busca
// líneas de servicio activas cuyo fin estimado ya pasó, libera sus
// máquinas y las marca como completadas.
type Monitor struct {
	sales    *SaleService
	interval time.Duration
	notifier notifier.Notifier
	logger   logger.Logger

	// runMu serializa los ticks: si uno sigue corriendo cuando vence el
	// siguiente intervalo, el nuevo tick se salta.
	runMu sync.Mutex

	mu        sync.Mutex
	running   bool
	lastCheck *time.Time
	lastCount int
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewMonitor crea un monitor de finalización con el intervalo dado
func NewMonitor(sales *SaleService, interval time.Duration, n notifier.Notifier, l logger.Logger) *Monitor {
	return &Monitor{sales: sales, interval: interval, notifier: n, logger: l}
}

// Start lanza la goroutine periódica del monitor. Es inocuo llamarlo
// más de una vez.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx)
	m.logger.Info("monitor de finalización iniciado", "interval", m.interval.String())
}

// Stop detiene el monitor y espera a que la goroutine termine
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
	m.logger.Info("monitor de finalización detenido")
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Tick(ctx); err != nil {
				m.logger.Error("tick del monitor falló", "error", err)
			}
		}
	}
}

// Tick ejecuta una pasada del monitor. Si otra pasada sigue en curso no
// hace nada. El tick es idempotente: una línea ya completada no vuelve a
// coincidir con la consulta.
func (m *Monitor) Tick(ctx context.Context) (int, error) {
	if !m.runMu.TryLock() {
		m.logger.Debug("tick del monitor omitido: corrida anterior en curso")
		return 0, nil
	}
	defer m.runMu.Unlock()

	count, err := m.sales.CheckAndDeactivateMachines(ctx)

	now := time.Now().UTC()
	m.mu.Lock()
	m.lastCheck = &now
	if err == nil {
		m.lastCount = count
	}
	m.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if count > 0 {
		m.logger.Info("servicios vencidos completados", "count", count)
		m.notifier.Publish(ctx, notifier.NewEvent(notifier.EventServicesCompleted, map[string]interface{}{
			"count":      count,
			"checked_at": now,
		}))
	}
	return count, nil
}

// Status retorna la foto actual del monitor
func (m *Monitor) Status() MonitorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MonitorStatus{
		Running:         m.running,
		IntervalSeconds: int(m.interval.Seconds()),
		LastCheck:       m.lastCheck,
		LastCount:       m.lastCount,
	}
}
