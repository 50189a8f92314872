package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrClientNotFound es retornado cuando el cliente no existe
var ErrClientNotFound = errors.New("cliente no encontrado")

// ClientRepository da acceso de solo lectura a los clientes. El CRUD de
// clientes es responsabilidad de otro subsistema; acá solo se necesita el
// nombre para mostrar en recibos y consultas de saldo.
type ClientRepository struct {
	db *pgxpool.Pool
}

// NewClientRepository crea una nueva instancia de ClientRepository
func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

// DisplayName retorna el nombre completo del cliente
func (r *ClientRepository) DisplayName(ctx context.Context, clientID string) (string, error) {
	var nombre, apellido string
	err := r.db.QueryRow(ctx,
		"SELECT nombre, apellido FROM clients WHERE id = $1", clientID).Scan(&nombre, &apellido)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrClientNotFound
		}
		return "", fmt.Errorf("error al buscar cliente: %w", err)
	}
	return strings.TrimSpace(nombre + " " + apellido), nil
}
