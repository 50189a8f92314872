package card

import (
	"context"
)

// Repository define la interfaz de persistencia de tarjetas recargables
type Repository interface {
	// Create crea una nueva tarjeta
	Create(ctx context.Context, c *Card) error

	// FindByID busca una tarjeta por su ID
	FindByID(ctx context.Context, id string) (*Card, error)

	// FindByNFCUID busca una tarjeta activa por su UID NFC
	FindByNFCUID(ctx context.Context, uid string) (*Card, error)

	// NFCUIDExists verifica si un UID ya está vinculado a alguna tarjeta
	NFCUIDExists(ctx context.Context, uid string) (bool, error)

	// UpdateBalance persiste el saldo y la fecha de último uso
	UpdateBalance(ctx context.Context, c *Card) error

	// UpdateNFC persiste el vínculo NFC de la tarjeta
	UpdateNFC(ctx context.Context, c *Card) error
}
