package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
)

// Errores específicos del repositorio de ventas
var (
	ErrSaleNotFound    = errors.New("venta no encontrada")
	ErrServiceNotFound = errors.New("línea de servicio no encontrada")
)

// SaleRepository implementa sale.Repository sobre PostgreSQL
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository crea una nueva instancia de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{db: db}
}

// Create implementa sale.Repository.Create. La venta con sus líneas es un
// solo documento lógico, por lo que se inserta en una única transacción;
// las escrituras posteriores sobre otras entidades quedan fuera de ella.
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error al iniciar escritura de venta: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO sales (id, client_id, employee_id, store_id, total_amount, status, created_at)
		 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7)`,
		s.ID, s.ClientID, s.EmployeeID, s.StoreID, s.TotalAmount, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al crear venta: %w", err)
	}

	for i, p := range s.Products {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_products (sale_id, line_index, product_id, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, i, p.ProductID, p.Quantity, p.UnitPrice, p.Subtotal)
		if err != nil {
			return fmt.Errorf("error al crear línea de producto: %w", err)
		}
	}

	for i, sv := range s.Services {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_services (sale_id, line_index, service_cycle_id, machine_id, machine_type,
			                            duration_minutes, weight_kg, price, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.ID, i, sv.ServiceCycleID, sv.MachineID, sv.MachineType, sv.Duration, sv.WeightKg, sv.Price, sv.Status)
		if err != nil {
			return fmt.Errorf("error al crear línea de servicio: %w", err)
		}
	}

	for i, pm := range s.Payments {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_payments (sale_id, line_index, payment_type, amount, card_id, nfc_uid)
			 VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, NULLIF($6, ''))`,
			s.ID, i, pm.Type, pm.Amount, pm.CardID, pm.NFCUID)
		if err != nil {
			return fmt.Errorf("error al crear método de pago: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error al confirmar venta: %w", err)
	}
	return nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	var s sale.Sale
	var clientID *string

	err := r.db.QueryRow(ctx,
		`SELECT id, client_id, employee_id, store_id, total_amount, status,
		        created_at, completed_at, finalized_at
		 FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &clientID, &s.EmployeeID, &s.StoreID, &s.TotalAmount, &s.Status,
		&s.CreatedAt, &s.CompletedAt, &s.FinalizedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("error al buscar venta: %w", err)
	}
	if clientID != nil {
		s.ClientID = *clientID
	}

	if err := r.loadLines(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, f sale.Filter, limit, offset int) ([]*sale.Sale, error) {
	where, args := buildSaleFilter(f)
	args = append(args, limit, offset)

	query := fmt.Sprintf(
		`SELECT id, client_id, employee_id, store_id, total_amount, status,
		        created_at, completed_at, finalized_at
		 FROM sales %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar ventas: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		var s sale.Sale
		var clientID *string
		if err := rows.Scan(&s.ID, &clientID, &s.EmployeeID, &s.StoreID, &s.TotalAmount,
			&s.Status, &s.CreatedAt, &s.CompletedAt, &s.FinalizedAt); err != nil {
			return nil, fmt.Errorf("error al leer venta: %w", err)
		}
		if clientID != nil {
			s.ClientID = *clientID
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer ventas: %w", err)
	}

	for _, s := range sales {
		if err := r.loadLines(ctx, s); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

// Count implementa sale.Repository.Count
func (r *SaleRepository) Count(ctx context.Context, f sale.Filter) (int, error) {
	where, args := buildSaleFilter(f)
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sales "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error al contar ventas: %w", err)
	}
	return count, nil
}

// UpdateStatus implementa sale.Repository.UpdateStatus
func (r *SaleRepository) UpdateStatus(ctx context.Context, id string, status sale.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET status = $2,
		        completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END,
		        finalized_at = CASE WHEN $2 = 'finalized' THEN NOW() ELSE finalized_at END
		 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error al actualizar estado de venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}
	return nil
}

// UpdateServiceStatus implementa sale.Repository.UpdateServiceStatus
func (r *SaleRepository) UpdateServiceStatus(ctx context.Context, saleID string, index int, status sale.ServiceStatus, startedAt, estimatedEndAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sale_services SET status = $3,
		        started_at = COALESCE($4, started_at),
		        estimated_end_at = COALESCE($5, estimated_end_at),
		        completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END
		 WHERE sale_id = $1 AND line_index = $2`,
		saleID, index, status, startedAt, estimatedEndAt)
	if err != nil {
		return fmt.Errorf("error al actualizar línea de servicio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// ActiveExpiredServices implementa sale.Repository.ActiveExpiredServices
func (r *SaleRepository) ActiveExpiredServices(ctx context.Context, now time.Time) ([]sale.ActiveService, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ss.sale_id, ss.line_index, ss.machine_id, ss.service_cycle_id, ss.estimated_end_at
		 FROM sale_services ss
		 JOIN sales s ON s.id = ss.sale_id
		 WHERE s.status <> 'cancelled'
		   AND ss.status = 'active'
		   AND ss.estimated_end_at IS NOT NULL
		   AND ss.estimated_end_at <= $1`, now)
	if err != nil {
		return nil, fmt.Errorf("error al buscar servicios vencidos: %w", err)
	}
	defer rows.Close()

	var out []sale.ActiveService
	for rows.Next() {
		var as sale.ActiveService
		if err := rows.Scan(&as.SaleID, &as.ServiceIndex, &as.MachineID, &as.ServiceCycleID, &as.EstimatedEndAt); err != nil {
			return nil, fmt.Errorf("error al leer servicio vencido: %w", err)
		}
		out = append(out, as)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer servicios vencidos: %w", err)
	}
	return out, nil
}

// Summary implementa sale.Repository.Summary
func (r *SaleRepository) Summary(ctx context.Context, from, to time.Time) (*sale.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		 FROM sales
		 WHERE created_at >= $1 AND created_at <= $2
		 GROUP BY status`, from, to)
	if err != nil {
		return nil, fmt.Errorf("error al obtener resumen de ventas: %w", err)
	}
	defer rows.Close()

	summary := &sale.Summary{ByStatus: map[sale.Status]sale.StatusSummary{}}
	for rows.Next() {
		var status sale.Status
		var count int
		var amount float64
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, fmt.Errorf("error al leer resumen: %w", err)
		}
		summary.ByStatus[status] = sale.StatusSummary{Count: count, TotalAmount: amount}
		summary.TotalSales += count
		summary.TotalAmount += amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error al recorrer resumen: %w", err)
	}
	return summary, nil
}

// loadLines carga las líneas de producto, servicio y pago de una venta
func (r *SaleRepository) loadLines(ctx context.Context, s *sale.Sale) error {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, quantity, unit_price, subtotal
		 FROM sale_products WHERE sale_id = $1 ORDER BY line_index`, s.ID)
	if err != nil {
		return fmt.Errorf("error al cargar productos de la venta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p sale.ProductLine
		if err := rows.Scan(&p.ProductID, &p.Quantity, &p.UnitPrice, &p.Subtotal); err != nil {
			return fmt.Errorf("error al leer línea de producto: %w", err)
		}
		s.Products = append(s.Products, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	svcRows, err := r.db.Query(ctx,
		`SELECT service_cycle_id, machine_id, machine_type, duration_minutes, weight_kg,
		        price, status, started_at, estimated_end_at, completed_at
		 FROM sale_services WHERE sale_id = $1 ORDER BY line_index`, s.ID)
	if err != nil {
		return fmt.Errorf("error al cargar servicios de la venta: %w", err)
	}
	defer svcRows.Close()
	for svcRows.Next() {
		var sv sale.ServiceLine
		if err := svcRows.Scan(&sv.ServiceCycleID, &sv.MachineID, &sv.MachineType, &sv.Duration,
			&sv.WeightKg, &sv.Price, &sv.Status, &sv.StartedAt, &sv.EstimatedEndAt, &sv.CompletedAt); err != nil {
			return fmt.Errorf("error al leer línea de servicio: %w", err)
		}
		s.Services = append(s.Services, sv)
	}
	if err := svcRows.Err(); err != nil {
		return err
	}

	payRows, err := r.db.Query(ctx,
		`SELECT payment_type, amount, card_id, nfc_uid
		 FROM sale_payments WHERE sale_id = $1 ORDER BY line_index`, s.ID)
	if err != nil {
		return fmt.Errorf("error al cargar pagos de la venta: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var pm sale.PaymentMethod
		var cardID, nfcUID *string
		if err := payRows.Scan(&pm.Type, &pm.Amount, &cardID, &nfcUID); err != nil {
			return fmt.Errorf("error al leer método de pago: %w", err)
		}
		if cardID != nil {
			pm.CardID = *cardID
		}
		if nfcUID != nil {
			pm.NFCUID = *nfcUID
		}
		s.Payments = append(s.Payments, pm)
	}
	return payRows.Err()
}

// buildSaleFilter arma la cláusula WHERE y los argumentos a partir del filtro
func buildSaleFilter(f sale.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.ExcludeFinalized {
		conds = append(conds, "status <> 'finalized'")
	}
	if f.EmployeeID != "" {
		add("employee_id = $%d", f.EmployeeID)
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.Today {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		add("created_at >= $%d", today)
		add("created_at < $%d", today.Add(24*time.Hour))
	}

	if len(conds) == 0 {
		return "", args
	}
	where := "WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}
