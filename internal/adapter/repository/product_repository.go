package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia/lavanderia-backend/internal/domain/product"
)

// Errores específicos del repositorio de productos
var (
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrProductStock    = errors.New("stock insuficiente para descontar")
)

// ProductRepository implementa product.Repository sobre PostgreSQL
type ProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository crea una nueva instancia de ProductRepository
func NewProductRepository(db *pgxpool.Pool) product.Repository {
	return &ProductRepository{db: db}
}

// Create implementa product.Repository.Create
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, store_id, nombre, descripcion, precio, stock, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.StoreID, p.Nombre, p.Descripcion, p.Precio, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error al crear producto: %w", err)
	}
	return nil
}

// FindByID implementa product.Repository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := r.db.QueryRow(ctx,
		`SELECT id, store_id, nombre, descripcion, precio, stock, is_active, created_at, updated_at
		 FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.StoreID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("error al buscar producto: %w", err)
	}
	return &p, nil
}

// FindByStore implementa product.Repository.FindByStore
func (r *ProductRepository) FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, store_id, nombre, descripcion, precio, stock, is_active, created_at, updated_at
		 FROM products WHERE store_id = $1 AND is_active = TRUE
		 ORDER BY nombre LIMIT $2 OFFSET $3`, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error al listar productos: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error al leer producto: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// DecrementStock implementa product.Repository.DecrementStock. El descuento
// es condicional y atómico: falla si el stock no alcanza.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW()
		 WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return fmt.Errorf("error al descontar stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductStock
	}
	return nil
}

// Update implementa product.Repository.Update
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET nombre = $2, descripcion = $3, precio = $4, stock = $5,
		        is_active = $6, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.Nombre, p.Descripcion, p.Precio, p.Stock, p.IsActive)
	if err != nil {
		return fmt.Errorf("error al actualizar producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
