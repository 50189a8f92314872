package service

import (
	"context"
	"errors"
	"time"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
	"github.com/lavanderia/lavanderia-backend/internal/domain/cycle"
	"github.com/lavanderia/lavanderia-backend/internal/domain/product"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// SaleList es el resultado paginado del listado de ventas
type SaleList struct {
	Sales      []*sale.Sale `json:"sales"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

// SaleService orquesta la transacción de venta: resolución de catálogo,
// validación y cobro de pagos, descuento de stock y ocupación de máquinas.
// No hay transacción que abarque los pasos entre entidades; cada escritura
// individual es atómica y los huecos de compensación están documentados.
type SaleService struct {
	sales      sale.Repository
	products   product.Repository
	cycles     cycle.Repository
	cards      card.Repository
	machineSvc *MachineService
	notifier   notifier.Notifier
	logger     logger.Logger
}

// NewSaleService crea una nueva instancia de SaleService
func NewSaleService(sales sale.Repository, products product.Repository, cycles cycle.Repository,
	cards card.Repository, machineSvc *MachineService, n notifier.Notifier, l logger.Logger) *SaleService {
	return &SaleService{
		sales:      sales,
		products:   products,
		cycles:     cycles,
		cards:      cards,
		machineSvc: machineSvc,
		notifier:   n,
		logger:     l,
	}
}

// CreateSale ejecuta el flujo completo de creación de venta. Los precios
// de líneas siempre salen del catálogo; los que manda el cliente se
// ignoran. La venta queda en pending: el arranque físico de máquinas
// ocurre recién en CompleteSale.
func (s *SaleService) CreateSale(ctx context.Context, sl *sale.Sale) (*sale.Sale, error) {
	if err := sl.ValidateShape(); err != nil {
		return nil, WrapError(KindValidation, "venta inválida", err)
	}

	if err := s.resolveProductLines(ctx, sl); err != nil {
		return nil, err
	}
	if err := s.resolveServiceLines(ctx, sl); err != nil {
		return nil, err
	}

	if sl.TotalAmount == 0 {
		sl.TotalAmount = sl.ComputeTotal()
	}

	if err := s.validatePayments(ctx, sl); err != nil {
		return nil, err
	}

	if err := s.sales.Create(ctx, sl); err != nil {
		return nil, WrapError(KindInternal, "error al persistir venta", err)
	}

	if err := s.processPayments(ctx, sl); err != nil {
		s.cancelSale(ctx, sl)
		return nil, err
	}

	// A partir de acá los cobros de tarjeta ya ocurrieron y no se
	// reintegran si el descuento de stock falla.
	for _, line := range sl.Products {
		if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.cancelSale(ctx, sl)
			if errors.Is(err, repository.ErrProductStock) {
				return nil, WrapError(KindBusiness, "stock insuficiente para el producto "+line.ProductID, err)
			}
			return nil, WrapError(KindInternal, "error al descontar stock", err)
		}
	}

	for i, line := range sl.Services {
		m, err := s.machineSvc.Get(ctx, line.MachineID)
		if err != nil {
			return nil, err
		}
		if err := s.machineSvc.MarkOccupied(ctx, m, sl.ID, i, line.ServiceCycleID); err != nil {
			return nil, err
		}
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventSaleCreated, map[string]interface{}{
		"sale_id":      sl.ID,
		"store_id":     sl.StoreID,
		"total_amount": sl.TotalAmount,
	}))
	return sl, nil
}

// CompleteSale despacha el arranque físico de todos los servicios
// pendientes de la venta. Si una activación falla la operación completa
// aborta: esa máquina vuelve a disponible, la venta sigue en pending y
// las líneas ya activadas quedan activadas.
func (s *SaleService) CompleteSale(ctx context.Context, saleID string) (*sale.Sale, error) {
	sl, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sl.Status != sale.StatusPending {
		return nil, NewError(KindBusiness, "solo ventas pendientes pueden completarse")
	}

	for i := range sl.Services {
		line := &sl.Services[i]
		if line.Status != sale.ServicePending {
			continue
		}

		start, end, aerr := s.machineSvc.Activate(ctx, line.MachineID, time.Duration(line.Duration)*time.Minute)
		if aerr != nil {
			if rerr := s.machineSvc.Revert(ctx, line.MachineID); rerr != nil {
				s.logger.Error("no se pudo revertir máquina tras fallo de activación",
					"machine_id", line.MachineID, "sale_id", sl.ID, "error", rerr)
			}
			return nil, aerr
		}

		if err := s.sales.UpdateServiceStatus(ctx, sl.ID, i, sale.ServiceActive, &start, &end); err != nil {
			return nil, WrapError(KindInternal, "error al activar línea de servicio", err)
		}
		line.Status = sale.ServiceActive
		line.StartedAt = &start
		line.EstimatedEndAt = &end
	}

	if err := sl.Transition(sale.StatusCompleted); err != nil {
		return nil, WrapError(KindBusiness, "transición de estado inválida", err)
	}
	if err := s.sales.UpdateStatus(ctx, sl.ID, sale.StatusCompleted); err != nil {
		return nil, WrapError(KindInternal, "error al actualizar estado de venta", err)
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventSaleUpdated, map[string]interface{}{
		"sale_id": sl.ID,
		"status":  sl.Status,
	}))
	return sl, nil
}

// FinalizeSale cierra una venta completada. Requiere que todas las
// líneas de servicio estén completadas.
func (s *SaleService) FinalizeSale(ctx context.Context, saleID string) (*sale.Sale, error) {
	sl, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sl.Status == sale.StatusFinalized {
		return nil, NewError(KindBusiness, "la venta ya está finalizada")
	}
	if !sl.AllServicesCompleted() {
		return nil, WrapError(KindBusiness, "la venta tiene servicios sin completar", sale.ErrServicesIncomplete)
	}
	if err := sl.Transition(sale.StatusFinalized); err != nil {
		return nil, WrapError(KindBusiness, "transición de estado inválida", err)
	}
	if err := s.sales.UpdateStatus(ctx, sl.ID, sale.StatusFinalized); err != nil {
		return nil, WrapError(KindInternal, "error al actualizar estado de venta", err)
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventSaleUpdated, map[string]interface{}{
		"sale_id": sl.ID,
		"status":  sl.Status,
	}))
	return sl, nil
}

// UpdateStatus aplica una transición explícita de estado. Al cancelar,
// las máquinas ocupadas por la venta se liberan.
func (s *SaleService) UpdateStatus(ctx context.Context, saleID string, next sale.Status) (*sale.Sale, error) {
	if !next.IsValid() {
		return nil, NewError(KindValidation, "estado de venta desconocido: "+string(next))
	}

	sl, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := sl.Transition(next); err != nil {
		return nil, WrapError(KindBusiness, "transición de estado inválida", err)
	}
	if err := s.sales.UpdateStatus(ctx, sl.ID, next); err != nil {
		return nil, WrapError(KindInternal, "error al actualizar estado de venta", err)
	}

	if next == sale.StatusCancelled {
		s.releaseSaleMachines(ctx, sl)
	}

	s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventSaleUpdated, map[string]interface{}{
		"sale_id": sl.ID,
		"status":  sl.Status,
	}))
	return sl, nil
}

// GetSale busca una venta con todas sus líneas
func (s *SaleService) GetSale(ctx context.Context, saleID string) (*sale.Sale, error) {
	sl, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			return nil, WrapError(KindNotFound, "venta no encontrada", err)
		}
		return nil, WrapError(KindInternal, "error al buscar venta", err)
	}
	return sl, nil
}

// ListSales lista ventas paginadas según filtros
func (s *SaleService) ListSales(ctx context.Context, f sale.Filter, page, perPage int) (*SaleList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := s.sales.Count(ctx, f)
	if err != nil {
		return nil, WrapError(KindInternal, "error al contar ventas", err)
	}
	sales, err := s.sales.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, WrapError(KindInternal, "error al listar ventas", err)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}
	return &SaleList{Sales: sales, Total: total, Page: page, PerPage: perPage, TotalPages: totalPages}, nil
}

// Summary agrega conteos y montos por estado en un rango de fechas
func (s *SaleService) Summary(ctx context.Context, from, to time.Time) (*sale.Summary, error) {
	if to.Before(from) {
		return nil, NewError(KindValidation, "el rango de fechas es inválido")
	}
	summary, err := s.sales.Summary(ctx, from, to)
	if err != nil {
		return nil, WrapError(KindInternal, "error al calcular resumen de ventas", err)
	}
	return summary, nil
}

// CheckAndDeactivateMachines libera las máquinas cuyos servicios activos
// ya vencieron y marca esas líneas como completadas. Retorna cuántas
// líneas transicionaron. La corrida es idempotente: una línea completada
// deja de coincidir con la consulta.
func (s *SaleService) CheckAndDeactivateMachines(ctx context.Context) (int, error) {
	expired, err := s.sales.ActiveExpiredServices(ctx, time.Now().UTC())
	if err != nil {
		return 0, WrapError(KindInternal, "error al consultar servicios vencidos", err)
	}

	count := 0
	for _, svc := range expired {
		if err := s.machineSvc.Release(ctx, svc.MachineID); err != nil {
			s.logger.Error("no se pudo liberar máquina con servicio vencido",
				"machine_id", svc.MachineID, "sale_id", svc.SaleID, "error", err)
		}
		if err := s.sales.UpdateServiceStatus(ctx, svc.SaleID, svc.ServiceIndex, sale.ServiceCompleted, nil, nil); err != nil {
			s.logger.Error("no se pudo completar línea de servicio vencida",
				"sale_id", svc.SaleID, "service_index", svc.ServiceIndex, "error", err)
			continue
		}
		count++
	}

	if count > 0 {
		s.notifier.Publish(ctx, notifier.NewEvent(notifier.EventMachinesStatusChanged, map[string]interface{}{
			"completed_services": count,
		}))
	}
	return count, nil
}

func (s *SaleService) resolveProductLines(ctx context.Context, sl *sale.Sale) error {
	for i := range sl.Products {
		line := &sl.Products[i]
		if line.Quantity <= 0 {
			return NewError(KindValidation, "cantidad inválida para el producto "+line.ProductID)
		}

		p, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return WrapError(KindNotFound, "producto no encontrado: "+line.ProductID, err)
			}
			return WrapError(KindInternal, "error al buscar producto", err)
		}
		if !p.IsActive {
			return NewError(KindBusiness, "producto inactivo: "+p.Nombre)
		}
		if !p.HasStock(line.Quantity) {
			return NewError(KindBusiness, "stock insuficiente para el producto "+p.Nombre)
		}

		line.UnitPrice = p.Precio
		line.Subtotal = p.Subtotal(line.Quantity)
	}
	return nil
}

func (s *SaleService) resolveServiceLines(ctx context.Context, sl *sale.Sale) error {
	for i := range sl.Services {
		line := &sl.Services[i]

		c, err := s.cycles.FindByID(ctx, line.ServiceCycleID)
		if err != nil {
			if errors.Is(err, repository.ErrCycleNotFound) {
				return WrapError(KindNotFound, "ciclo de servicio no encontrado: "+line.ServiceCycleID, err)
			}
			return WrapError(KindInternal, "error al buscar ciclo de servicio", err)
		}
		if !c.IsActive {
			return NewError(KindBusiness, "ciclo de servicio inactivo: "+c.Name)
		}

		m, err := s.machineSvc.Get(ctx, line.MachineID)
		if err != nil {
			return err
		}
		if !m.IsAvailable() {
			return NewError(KindBusiness, "máquina no disponible")
		}
		if !c.AllowsMachine(m.ID) {
			return WrapError(KindBusiness, "la máquina no es compatible con el ciclo "+c.Name, cycle.ErrMachineNotAllowed)
		}

		price, err := c.PriceFor(line.WeightKg)
		if err != nil {
			return WrapError(KindValidation, "peso inválido para el ciclo "+c.Name, err)
		}

		line.Price = price
		line.MachineType = m.Type
		line.Duration = c.DurationMinutes
		line.Status = sale.ServicePending
	}
	return nil
}

// cancelSale transiciona la venta recién creada a cancelled tras un
// fallo de cobro o de stock
func (s *SaleService) cancelSale(ctx context.Context, sl *sale.Sale) {
	if err := s.sales.UpdateStatus(ctx, sl.ID, sale.StatusCancelled); err != nil {
		s.logger.Error("no se pudo cancelar la venta tras fallo", "sale_id", sl.ID, "error", err)
		return
	}
	sl.Status = sale.StatusCancelled
}

// releaseSaleMachines libera las máquinas de las líneas de servicio no
// completadas de la venta. Best effort: los fallos solo se registran.
func (s *SaleService) releaseSaleMachines(ctx context.Context, sl *sale.Sale) {
	for _, line := range sl.Services {
		if line.Status == sale.ServiceCompleted {
			continue
		}
		if err := s.machineSvc.Release(ctx, line.MachineID); err != nil {
			s.logger.Warn("no se pudo liberar máquina de venta cancelada",
				"machine_id", line.MachineID, "sale_id", sl.ID, "error", err)
		}
	}
}
