package machine

import (
	"errors"
	"time"
)

var (
	ErrNotAvailable = errors.New("máquina no disponible")
	ErrNotOccupied  = errors.New("máquina no tiene servicio asignado")
	ErrNoDevice     = errors.New("máquina sin esp32_id configurado")
)

// Type es el discriminador cerrado del tipo de máquina
type Type string

const (
	TypeLavadora Type = "lavadora"
	TypeSecadora Type = "secadora"
)

// Estado representa el estado operativo de la máquina
type Estado string

const (
	EstadoDisponible    Estado = "disponible"
	EstadoOcupada       Estado = "ocupada"
	EstadoMantenimiento Estado = "mantenimiento"
)

// CurrentService es el registro de ocupación: qué línea de servicio de qué
// venta es dueña de la máquina en este momento
type CurrentService struct {
	SaleID         string     `json:"sale_id"`
	ServiceIndex   int        `json:"service_index"`
	ServiceCycleID string     `json:"service_cycle_id"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EstimatedEndAt *time.Time `json:"estimated_end_at,omitempty"`
}

// Machine representa una lavadora o secadora física
type Machine struct {
	ID             string          `json:"id"`
	StoreID        string          `json:"store_id"`
	Numero         int             `json:"numero"`
	Type           Type            `json:"tipo"`
	ESP32ID        string          `json:"esp32_id"`
	CapacidadKg    float64         `json:"capacidad_kg"`
	Estado         Estado          `json:"estado"`
	CurrentService *CurrentService `json:"current_service,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsAvailable verifica si la máquina puede recibir un nuevo servicio
func (m *Machine) IsAvailable() bool {
	return m.IsActive && m.Estado == EstadoDisponible
}

// HasDevice verifica si la máquina tiene un controlador físico configurado
func (m *Machine) HasDevice() bool {
	return m.ESP32ID != ""
}

// Occupy marca la máquina como ocupada con el stub del servicio actual.
// Los timestamps se escriben recién en ActivateService.
func (m *Machine) Occupy(saleID string, serviceIndex int, serviceCycleID string) {
	m.Estado = EstadoOcupada
	m.CurrentService = &CurrentService{
		SaleID:         saleID,
		ServiceIndex:   serviceIndex,
		ServiceCycleID: serviceCycleID,
	}
	m.UpdatedAt = time.Now().UTC()
}

// ActivateService escribe los tiempos de inicio y fin estimado del servicio
// actual. Requiere que la máquina esté ocupada.
func (m *Machine) ActivateService(startedAt, estimatedEndAt time.Time) error {
	if m.Estado != EstadoOcupada || m.CurrentService == nil {
		return ErrNotOccupied
	}
	m.CurrentService.StartedAt = &startedAt
	m.CurrentService.EstimatedEndAt = &estimatedEndAt
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Release libera la máquina: estado disponible y sin servicio actual
func (m *Machine) Release() {
	m.Estado = EstadoDisponible
	m.CurrentService = nil
	m.UpdatedAt = time.Now().UTC()
}

// OccupancyConsistent verifica el invariante: current_service presente
// si y solo si la máquina está ocupada
func (m *Machine) OccupancyConsistent() bool {
	if m.Estado == EstadoOcupada {
		return m.CurrentService != nil
	}
	return m.CurrentService == nil
}
