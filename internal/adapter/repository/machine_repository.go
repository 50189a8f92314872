package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia/lavanderia-backend/internal/domain/machine"
)

// ErrMachineNotFound es retornado cuando la máquina no existe en ninguna tabla
var ErrMachineNotFound = errors.New("máquina no encontrada")

// MachineRepository implementa machine.Repository sobre PostgreSQL.
// Las lavadoras y secadoras viven en tablas separadas (washers, dryers);
// el tipo de la máquina decide la tabla.
type MachineRepository struct {
	db *pgxpool.Pool
}

// NewMachineRepository crea una nueva instancia de MachineRepository
func NewMachineRepository(db *pgxpool.Pool) machine.Repository {
	return &MachineRepository{db: db}
}

func tableFor(t machine.Type) string {
	if t == machine.TypeSecadora {
		return "dryers"
	}
	return "washers"
}

// FindByID implementa machine.Repository.FindByID: busca primero entre
// lavadoras y después entre secadoras
func (r *MachineRepository) FindByID(ctx context.Context, id string) (*machine.Machine, error) {
	m, err := r.findInTable(ctx, "washers", machine.TypeLavadora, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrMachineNotFound) {
		return nil, err
	}
	return r.findInTable(ctx, "dryers", machine.TypeSecadora, id)
}

// FindByStore implementa machine.Repository.FindByStore
func (r *MachineRepository) FindByStore(ctx context.Context, storeID string, limit, offset int) ([]*machine.Machine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, store_id, numero, 'lavadora' AS tipo, esp32_id, capacidad_kg, estado,
		        current_sale_id, current_service_index, current_service_cycle_id,
		        current_started_at, current_estimated_end_at, is_active, created_at, updated_at
		 FROM washers WHERE store_id = $1 AND is_active = TRUE
		 UNION ALL
		 SELECT id, store_id, numero, 'secadora' AS tipo, esp32_id, capacidad_kg, estado,
		        current_sale_id, current_service_index, current_service_cycle_id,
		        current_started_at, current_estimated_end_at, is_active, created_at, updated_at
		 FROM dryers WHERE store_id = $1 AND is_active = TRUE
		 ORDER BY tipo, numero
		 LIMIT $2 OFFSET $3`, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error al listar máquinas: %w", err)
	}
	defer rows.Close()

	var machines []*machine.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer máquinas: %w", err)
	}
	return machines, nil
}

// UpdateOccupancy implementa machine.Repository.UpdateOccupancy. Estado y
// current_service se escriben en un solo UPDATE, que es atómico a nivel de
// fila.
func (r *MachineRepository) UpdateOccupancy(ctx context.Context, m *machine.Machine) error {
	var saleID, cycleID interface{}
	var serviceIndex interface{}
	var startedAt, estimatedEndAt interface{}

	if cs := m.CurrentService; cs != nil {
		saleID = cs.SaleID
		serviceIndex = cs.ServiceIndex
		cycleID = cs.ServiceCycleID
		startedAt = cs.StartedAt
		estimatedEndAt = cs.EstimatedEndAt
	}

	query := fmt.Sprintf(
		`UPDATE %s SET estado = $2,
		        current_sale_id = $3, current_service_index = $4, current_service_cycle_id = $5,
		        current_started_at = $6, current_estimated_end_at = $7, updated_at = NOW()
		 WHERE id = $1`, tableFor(m.Type))

	tag, err := r.db.Exec(ctx, query, m.ID, m.Estado, saleID, serviceIndex, cycleID, startedAt, estimatedEndAt)
	if err != nil {
		return fmt.Errorf("error al actualizar ocupación de máquina: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMachineNotFound
	}
	return nil
}

// CountByEstado implementa machine.Repository.CountByEstado
func (r *MachineRepository) CountByEstado(ctx context.Context, storeID string) (map[machine.Estado]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT estado, COUNT(*) FROM (
		     SELECT estado FROM washers WHERE store_id = $1 AND is_active = TRUE
		     UNION ALL
		     SELECT estado FROM dryers WHERE store_id = $1 AND is_active = TRUE
		 ) AS m GROUP BY estado`, storeID)
	if err != nil {
		return nil, fmt.Errorf("error al contar máquinas por estado: %w", err)
	}
	defer rows.Close()

	counts := map[machine.Estado]int{}
	for rows.Next() {
		var estado machine.Estado
		var count int
		if err := rows.Scan(&estado, &count); err != nil {
			return nil, fmt.Errorf("error al leer conteo de máquinas: %w", err)
		}
		counts[estado] = count
	}
	return counts, rows.Err()
}

func (r *MachineRepository) findInTable(ctx context.Context, table string, t machine.Type, id string) (*machine.Machine, error) {
	query := fmt.Sprintf(
		`SELECT id, store_id, numero, '%s' AS tipo, esp32_id, capacidad_kg, estado,
		        current_sale_id, current_service_index, current_service_cycle_id,
		        current_started_at, current_estimated_end_at, is_active, created_at, updated_at
		 FROM %s WHERE id = $1`, t, table)

	row := r.db.QueryRow(ctx, query, id)
	m, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("error al buscar máquina: %w", err)
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMachine(row rowScanner) (*machine.Machine, error) {
	var m machine.Machine
	var cs machine.CurrentService
	var saleID, cycleID *string
	var serviceIndex *int

	err := row.Scan(&m.ID, &m.StoreID, &m.Numero, &m.Type, &m.ESP32ID, &m.CapacidadKg, &m.Estado,
		&saleID, &serviceIndex, &cycleID, &cs.StartedAt, &cs.EstimatedEndAt,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if saleID != nil {
		cs.SaleID = *saleID
		if serviceIndex != nil {
			cs.ServiceIndex = *serviceIndex
		}
		if cycleID != nil {
			cs.ServiceCycleID = *cycleID
		}
		m.CurrentService = &cs
	}
	return &m, nil
}
