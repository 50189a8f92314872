package machine

import (
	"context"
)

// Repository define la interfaz de persistencia de máquinas. Las lavadoras
// y secadoras viven en tablas separadas; la implementación resuelve la tabla
// según el tipo de la máquina.
type Repository interface {
	// FindByID busca una máquina por ID entre lavadoras y secadoras
	FindByID(ctx context.Context, id string) (*Machine, error)

	// FindByStore lista las máquinas activas de una tienda
	FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*Machine, error)

	// UpdateOccupancy persiste estado y current_service en una sola escritura
	UpdateOccupancy(ctx context.Context, m *Machine) error

	// CountByEstado cuenta las máquinas activas de una tienda por estado
	CountByEstado(ctx context.Context, storeID string) (map[Estado]int, error)
}
