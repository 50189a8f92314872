package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia/lavanderia-backend/internal/domain/cycle"
)

// ErrCycleNotFound es retornado cuando el ciclo de servicio no existe
var ErrCycleNotFound = errors.New("ciclo de servicio no encontrado")

// CycleRepository implementa cycle.Repository sobre PostgreSQL
type CycleRepository struct {
	db *pgxpool.Pool
}

// NewCycleRepository crea una nueva instancia de CycleRepository
func NewCycleRepository(db *pgxpool.Pool) cycle.Repository {
	return &CycleRepository{db: db}
}

// Create implementa cycle.Repository.Create
func (r *CycleRepository) Create(ctx context.Context, c *cycle.ServiceCycle) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO service_cycles (id, name, description, service_type, pricing_type, price,
		                             price_per_kg, duration_minutes, allowed_machine_ids,
		                             is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Name, c.Description, c.ServiceType, c.PricingType, c.Price,
		c.PricePerKg, c.DurationMinutes, c.AllowedMachineIDs, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error al crear ciclo de servicio: %w", err)
	}
	return nil
}

// FindByID implementa cycle.Repository.FindByID
func (r *CycleRepository) FindByID(ctx context.Context, id string) (*cycle.ServiceCycle, error) {
	var c cycle.ServiceCycle
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, service_type, pricing_type, price, price_per_kg,
		        duration_minutes, allowed_machine_ids, is_active, created_at, updated_at
		 FROM service_cycles WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.ServiceType, &c.PricingType, &c.Price,
		&c.PricePerKg, &c.DurationMinutes, &c.AllowedMachineIDs, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCycleNotFound
		}
		return nil, fmt.Errorf("error al buscar ciclo de servicio: %w", err)
	}
	return &c, nil
}

// List implementa cycle.Repository.List
func (r *CycleRepository) List(ctx context.Context, limit, offset int) ([]*cycle.ServiceCycle, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, service_type, pricing_type, price, price_per_kg,
		        duration_minutes, allowed_machine_ids, is_active, created_at, updated_at
		 FROM service_cycles WHERE is_active = TRUE
		 ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error al listar ciclos de servicio: %w", err)
	}
	defer rows.Close()

	var cycles []*cycle.ServiceCycle
	for rows.Next() {
		var c cycle.ServiceCycle
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ServiceType, &c.PricingType,
			&c.Price, &c.PricePerKg, &c.DurationMinutes, &c.AllowedMachineIDs,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error al leer ciclo de servicio: %w", err)
		}
		cycles = append(cycles, &c)
	}
	return cycles, rows.Err()
}

// Update implementa cycle.Repository.Update
func (r *CycleRepository) Update(ctx context.Context, c *cycle.ServiceCycle) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE service_cycles SET name = $2, description = $3, service_type = $4,
		        pricing_type = $5, price = $6, price_per_kg = $7, duration_minutes = $8,
		        allowed_machine_ids = $9, is_active = $10, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.ServiceType, c.PricingType, c.Price,
		c.PricePerKg, c.DurationMinutes, c.AllowedMachineIDs, c.IsActive)
	if err != nil {
		return fmt.Errorf("error al actualizar ciclo de servicio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCycleNotFound
	}
	return nil
}
