package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tipos de evento publicados por el backend
const (
	EventSaleCreated           = "sale.created"
	EventSaleUpdated           = "sale.updated"
	EventMachineUpdated        = "machine.updated"
	EventMachinesStatusChanged = "machines.status_changed"
	EventServicesCompleted     = "services.completed"
)

// Event es el sobre que viaja por el canal de eventos. El payload es
// específico de cada tipo de evento.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent arma un sobre con ID y timestamp nuevos
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Notifier publica eventos de dominio para consumidores externos
// (paneles en tiempo real, bitácoras). La publicación es best-effort:
// las implementaciones no deben propagar errores al flujo de negocio.
type Notifier interface {
	Publish(ctx context.Context, event Event)
}

// NopNotifier descarta todos los eventos. Útil en tests y cuando no hay
// broker configurado.
type NopNotifier struct{}

// Publish implementa Notifier descartando el evento
func (NopNotifier) Publish(ctx context.Context, event Event) {}
