package product

import (
	"context"
)

// Repository define la interfaz de persistencia de productos
type Repository interface {
	// Create crea un nuevo producto
	Create(ctx context.Context, p *Product) error

	// FindByID busca un producto por su ID
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByStore lista los productos de una tienda
	FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*Product, error)

	// DecrementStock descuenta stock de forma atómica; falla si no alcanza
	DecrementStock(ctx context.Context, id string, quantity int) error

	// Update actualiza los datos de un producto
	Update(ctx context.Context, p *Product) error
}
