package cycle

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("nombre no puede ser vacío")
	ErrMachineNotAllowed = errors.New("máquina no permitida para este ciclo de servicio")
	ErrInvalidWeight     = errors.New("peso debe ser mayor a cero para ciclos por kilo")
)

// ServiceType define el tipo de servicio del ciclo
type ServiceType string

const (
	ServiceTypeLavado ServiceType = "lavado"
	ServiceTypeSecado ServiceType = "secado"
)

// PricingType define cómo se calcula el precio del ciclo
type PricingType string

const (
	PricingFixed PricingType = "fijo"
	PricingPerKg PricingType = "por_kilo"
)

// ServiceCycle representa la definición de catálogo de un ciclo de máquina
type ServiceCycle struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	ServiceType       ServiceType `json:"service_type"`
	PricingType       PricingType `json:"pricing_type"`
	Price             float64     `json:"price"`
	PricePerKg        float64     `json:"price_per_kg"`
	DurationMinutes   int         `json:"duration_minutes"`
	AllowedMachineIDs []string    `json:"allowed_machine_ids"`
	IsActive          bool        `json:"is_active"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// NewServiceCycle crea un nuevo ciclo de servicio con precio fijo
func NewServiceCycle(name string, serviceType ServiceType, price float64, durationMinutes int) (*ServiceCycle, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now().UTC()
	return &ServiceCycle{
		ID:              uuid.New().String(),
		Name:            name,
		ServiceType:     serviceType,
		PricingType:     PricingFixed,
		Price:           price,
		DurationMinutes: durationMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AllowsMachine verifica si la máquina está en la lista de permitidas del ciclo
func (c *ServiceCycle) AllowsMachine(machineID string) bool {
	for _, id := range c.AllowedMachineIDs {
		if id == machineID {
			return true
		}
	}
	return false
}

// PriceFor calcula el precio del ciclo. Para ciclos por kilo el peso
// debe ser un número positivo.
func (c *ServiceCycle) PriceFor(weightKg float64) (float64, error) {
	if c.PricingType == PricingPerKg {
		if weightKg <= 0 {
			return 0, ErrInvalidWeight
		}
		return c.PricePerKg * weightKg, nil
	}
	return c.Price, nil
}

// Duration retorna la duración del ciclo como time.Duration
func (c *ServiceCycle) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}
