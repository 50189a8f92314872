package dto

import (
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
	"github.com/lavanderia/lavanderia-backend/internal/service"
)

// ProductLineRequest es una línea de producto de la venta. El precio se
// resuelve del catálogo; el cliente solo manda producto y cantidad.
type ProductLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// ServiceLineRequest es una línea de servicio de máquina de la venta
type ServiceLineRequest struct {
	ServiceCycleID string  `json:"service_cycle_id" binding:"required"`
	MachineID      string  `json:"machine_id" binding:"required"`
	WeightKg       float64 `json:"weight_kg"`
}

// PaymentMethodRequest es un instrumento de pago de la venta
type PaymentMethodRequest struct {
	Type   string  `json:"payment_type" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	CardID string  `json:"card_id"`
	NFCUID string  `json:"nfc_uid"`
}

// CreateSaleRequest es el cuerpo de creación de venta
type CreateSaleRequest struct {
	ClientID    string                 `json:"client_id"`
	Products    []ProductLineRequest   `json:"products"`
	Services    []ServiceLineRequest   `json:"services"`
	Payments    []PaymentMethodRequest `json:"payment_methods" binding:"required"`
	TotalAmount float64                `json:"total_amount"`
}

// ToSale arma la venta de dominio a partir del request. Los campos de
// identidad (empleado, tienda) vienen del token, no del cuerpo.
func (r CreateSaleRequest) ToSale(employeeID, storeID string) (*sale.Sale, error) {
	s, err := sale.NewSale(r.ClientID, employeeID, storeID)
	if err != nil {
		return nil, err
	}
	for _, p := range r.Products {
		s.Products = append(s.Products, sale.ProductLine{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		})
	}
	for _, sv := range r.Services {
		s.Services = append(s.Services, sale.ServiceLine{
			ServiceCycleID: sv.ServiceCycleID,
			MachineID:      sv.MachineID,
			WeightKg:       sv.WeightKg,
			Status:         sale.ServicePending,
		})
	}
	for _, pm := range r.Payments {
		s.Payments = append(s.Payments, sale.PaymentMethod{
			Type:   sale.PaymentType(pm.Type),
			Amount: pm.Amount,
			CardID: pm.CardID,
			NFCUID: pm.NFCUID,
		})
	}
	s.TotalAmount = r.TotalAmount
	return s, nil
}

// UpdateSaleStatusRequest es el cuerpo de cambio de estado de venta
type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SaleListResponse es la respuesta paginada del listado de ventas
type SaleListResponse struct {
	Sales      []*sale.Sale `json:"sales"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

// FromSaleList convierte el resultado del servicio a respuesta HTTP
func FromSaleList(l *service.SaleList) SaleListResponse {
	return SaleListResponse{
		Sales:      l.Sales,
		Total:      l.Total,
		Page:       l.Page,
		PerPage:    l.PerPage,
		TotalPages: l.TotalPages,
	}
}

// CheckServicesResponse es la respuesta de una corrida forzada del monitor
type CheckServicesResponse struct {
	CompletedServices int `json:"completed_services"`
}
