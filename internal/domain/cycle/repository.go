package cycle

import (
	"context"
)

// Repository define la interfaz de persistencia de ciclos de servicio
type Repository interface {
	// Create crea un nuevo ciclo de servicio
	Create(ctx context.Context, c *ServiceCycle) error

	// FindByID busca un ciclo por su ID
	FindByID(ctx context.Context, id string) (*ServiceCycle, error)

	// List lista los ciclos activos
	List(ctx context.Context, limit, offset int) ([]*ServiceCycle, error)

	// Update actualiza un ciclo existente
	Update(ctx context.Context, c *ServiceCycle) error
}
