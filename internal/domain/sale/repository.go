package sale

import (
	"context"
	"time"
)

// Filter son los filtros de listado de ventas. Los campos vacíos no filtran.
type Filter struct {
	Status           Status
	EmployeeID       string
	ClientID         string
	Today            bool
	ExcludeFinalized bool
}

// ActiveService es la vista aplanada de una línea de servicio activa, usada
// por el monitor de finalización
type ActiveService struct {
	SaleID         string
	ServiceIndex   int
	MachineID      string
	ServiceCycleID string
	EstimatedEndAt time.Time
}

// StatusSummary agrupa conteo y monto por estado
type StatusSummary struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// Summary es el resumen de ventas por rango de fechas
type Summary struct {
	TotalSales  int                      `json:"total_sales"`
	TotalAmount float64                  `json:"total_amount"`
	ByStatus    map[Status]StatusSummary `json:"by_status"`
}

// Repository define la interfaz de persistencia de ventas. Cada escritura
// individual es atómica; no hay transacciones que abarquen varias entidades.
type Repository interface {
	// Create persiste una venta nueva con sus líneas y pagos
	Create(ctx context.Context, s *Sale) error

	// FindByID busca una venta por ID con todas sus líneas
	FindByID(ctx context.Context, id string) (*Sale, error)

	// List lista ventas según filtros, ordenadas por fecha descendente
	List(ctx context.Context, f Filter, limit, offset int) ([]*Sale, error)

	// Count cuenta las ventas que cumplen los filtros
	Count(ctx context.Context, f Filter) (int, error)

	// UpdateStatus actualiza el estado de la venta y sus timestamps
	UpdateStatus(ctx context.Context, id string, status Status) error

	// UpdateServiceStatus actualiza el estado de una línea de servicio.
	// Para active escribe started_at/estimated_end_at; para completed
	// escribe completed_at.
	UpdateServiceStatus(ctx context.Context, saleID string, index int, status ServiceStatus, startedAt, estimatedEndAt *time.Time) error

	// ActiveExpiredServices retorna las líneas activas de ventas no
	// canceladas cuyo fin estimado ya pasó
	ActiveExpiredServices(ctx context.Context, now time.Time) ([]ActiveService, error)

	// Summary agrega conteos y montos por estado en un rango de fechas
	Summary(ctx context.Context, from, to time.Time) (*Summary, error)
}
