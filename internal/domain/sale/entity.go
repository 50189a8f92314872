package sale

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lavanderia/lavanderia-backend/internal/domain/machine"
)

var (
	ErrEmptyEmployee      = errors.New("employee_id es requerido")
	ErrEmptyStore         = errors.New("store_id es requerido")
	ErrNoItems            = errors.New("la venta debe tener al menos un producto o servicio")
	ErrNoPayments         = errors.New("la venta debe tener al menos un método de pago")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrPaymentMismatch    = errors.New("el total de pagos no coincide con el monto de la venta")
	ErrCardReference      = errors.New("pago con tarjeta recargable requiere card_id o nfc_uid, pero no ambos")
	ErrServiceOutOfRange  = errors.New("índice de servicio fuera de rango")
	ErrServicesIncomplete = errors.New("no todos los servicios de la venta están completados")
)

// Status representa el estado de la venta. Las únicas transiciones legales
// son pending→completed→finalized y pending→cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFinalized Status = "finalized"
)

// CanTransitionTo verifica si la transición de estado es legal
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusFinalized
	default:
		return false
	}
}

// IsValid verifica que el valor sea un estado conocido
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusFinalized:
		return true
	}
	return false
}

// ServiceStatus representa el estado de una línea de servicio. Es monótono:
// pending→active→completed, sin regresiones ni saltos.
type ServiceStatus string

const (
	ServicePending   ServiceStatus = "pending"
	ServiceActive    ServiceStatus = "active"
	ServiceCompleted ServiceStatus = "completed"
)

// CanTransitionTo verifica la monotonía del estado del servicio
func (s ServiceStatus) CanTransitionTo(next ServiceStatus) bool {
	switch s {
	case ServicePending:
		return next == ServiceActive
	case ServiceActive:
		return next == ServiceCompleted
	default:
		return false
	}
}

// PaymentType define el tipo de método de pago
type PaymentType string

const (
	PaymentCash        PaymentType = "efectivo"
	PaymentCreditCard  PaymentType = "tarjeta_credito"
	PaymentStoredValue PaymentType = "tarjeta_recargable"
)

// IsValid verifica que el valor sea un tipo de pago conocido
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentCash, PaymentCreditCard, PaymentStoredValue:
		return true
	}
	return false
}

// ProductLine es una línea de producto de la venta. El precio unitario y el
// subtotal se calculan del catálogo al momento de la venta; nunca vienen del
// cliente.
type ProductLine struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// ServiceLine es una línea de servicio de máquina de la venta
type ServiceLine struct {
	ServiceCycleID string        `json:"service_cycle_id"`
	MachineID      string        `json:"machine_id"`
	MachineType    machine.Type  `json:"machine_type"`
	Duration       int           `json:"duration"`
	WeightKg       float64       `json:"weight_kg,omitempty"`
	Price          float64       `json:"price"`
	Status         ServiceStatus `json:"status"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	EstimatedEndAt *time.Time    `json:"estimated_end_at,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

// PaymentMethod es un instrumento de pago de la venta. Para tarjeta
// recargable exactamente una vía de resolución (card_id o nfc_uid) debe
// estar presente.
type PaymentMethod struct {
	Type   PaymentType `json:"payment_type"`
	Amount float64     `json:"amount"`
	CardID string      `json:"card_id,omitempty"`
	NFCUID string      `json:"nfc_uid,omitempty"`
}

// Validate verifica la forma del método de pago
func (p PaymentMethod) Validate() error {
	if !p.Type.IsValid() {
		return errors.New("tipo de pago desconocido: " + string(p.Type))
	}
	if p.Type == PaymentStoredValue {
		hasCard := p.CardID != ""
		hasUID := p.NFCUID != ""
		if hasCard == hasUID {
			return ErrCardReference
		}
	}
	return nil
}

// Sale representa una venta de productos y/o servicios de máquina
type Sale struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id,omitempty"`
	EmployeeID  string          `json:"employee_id"`
	StoreID     string          `json:"store_id"`
	Products    []ProductLine   `json:"products"`
	Services    []ServiceLine   `json:"services"`
	Payments    []PaymentMethod `json:"payment_methods"`
	TotalAmount float64         `json:"total_amount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	FinalizedAt *time.Time      `json:"finalized_at,omitempty"`
}

// NewSale crea una venta en estado pending
func NewSale(clientID, employeeID, storeID string) (*Sale, error) {
	if employeeID == "" {
		return nil, ErrEmptyEmployee
	}
	if storeID == "" {
		return nil, ErrEmptyStore
	}
	return &Sale{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		EmployeeID: employeeID,
		StoreID:    storeID,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ValidateShape verifica la forma estructural de la venta antes de cualquier
// efecto secundario
func (s *Sale) ValidateShape() error {
	if s.EmployeeID == "" {
		return ErrEmptyEmployee
	}
	if s.StoreID == "" {
		return ErrEmptyStore
	}
	if len(s.Products) == 0 && len(s.Services) == 0 {
		return ErrNoItems
	}
	if len(s.Payments) == 0 {
		return ErrNoPayments
	}
	for _, p := range s.Payments {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ComputeTotal suma los subtotales de productos y precios de servicios
func (s *Sale) ComputeTotal() float64 {
	total := 0.0
	for _, p := range s.Products {
		total += p.Subtotal
	}
	for _, sv := range s.Services {
		total += sv.Price
	}
	return total
}

// PaymentsTotal suma los montos de todos los métodos de pago
func (s *Sale) PaymentsTotal() float64 {
	total := 0.0
	for _, p := range s.Payments {
		total += p.Amount
	}
	return total
}

// PaymentsMatchTotal verifica el invariante: la suma de pagos es igual al
// total de la venta con tolerancia de 0.01
func (s *Sale) PaymentsMatchTotal() bool {
	return math.Abs(s.PaymentsTotal()-s.TotalAmount) <= 0.01
}

// Transition mueve la venta al siguiente estado si la transición es legal,
// registrando los timestamps correspondientes
func (s *Sale) Transition(next Status) error {
	if !s.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	switch next {
	case StatusCompleted:
		s.CompletedAt = &now
	case StatusFinalized:
		s.FinalizedAt = &now
	}
	s.Status = next
	return nil
}

// HasServices verifica si la venta incluye líneas de servicio
func (s *Sale) HasServices() bool {
	return len(s.Services) > 0
}

// AllServicesCompleted verifica si todas las líneas de servicio terminaron
func (s *Sale) AllServicesCompleted() bool {
	for _, sv := range s.Services {
		if sv.Status != ServiceCompleted {
			return false
		}
	}
	return true
}
