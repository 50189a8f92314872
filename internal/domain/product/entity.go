package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("nombre no puede ser vacío")
	ErrInvalidPrice      = errors.New("precio debe ser mayor o igual a cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Product representa un producto de mostrador vendido en la lavandería
type Product struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Precio      float64   `json:"precio"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct crea un nuevo producto
func NewProduct(storeID, nombre string, precio float64, stock int) (*Product, error) {
	if nombre == "" {
		return nil, ErrEmptyName
	}
	if precio < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Product{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Nombre:    nombre,
		Precio:    precio,
		Stock:     stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasStock verifica si hay stock suficiente para la cantidad pedida
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// ReduceStock descuenta unidades del stock
func (p *Product) ReduceStock(quantity int) error {
	if !p.HasStock(quantity) {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Subtotal calcula el subtotal para una cantidad según el precio de catálogo
func (p *Product) Subtotal(quantity int) float64 {
	return p.Precio * float64(quantity)
}
