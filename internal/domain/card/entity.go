package card

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxBalance es el saldo máximo permitido por tarjeta
const MaxBalance = 1000.0

var (
	ErrInactive            = errors.New("tarjeta inactiva")
	ErrInvalidAmount       = errors.New("monto debe ser mayor a cero")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrBalanceLimit        = errors.New("la operación excedería el límite de saldo de la tarjeta")
	ErrUIDAlreadyLinked    = errors.New("tarjeta ya tiene UID NFC vinculado")
)

// Card representa una tarjeta recargable de valor almacenado. Puede estar
// vinculada a lo sumo a un UID NFC, y el vínculo se establece una sola vez.
type Card struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	CardNumber   string     `json:"card_number"`
	Balance      float64    `json:"balance"`
	NFCUID       string     `json:"nfc_uid,omitempty"`
	IsNFCEnabled bool       `json:"is_nfc_enabled"`
	IsActive     bool       `json:"is_active"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewCard crea una nueva tarjeta para un cliente
func NewCard(clientID, cardNumber string) *Card {
	now := time.Now().UTC()
	return &Card{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		CardNumber: cardNumber,
		Balance:    0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CanPay valida que la tarjeta pueda cubrir un pago
func (c *Card) CanPay(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !c.IsActive {
		return ErrInactive
	}
	if c.Balance < amount {
		return ErrInsufficientBalance
	}
	return nil
}

// Debit descuenta el monto del saldo. El saldo nunca baja de cero.
func (c *Card) Debit(amount float64) {
	c.Balance -= amount
	if c.Balance < 0 {
		c.Balance = 0
	}
	now := time.Now().UTC()
	c.LastUsedAt = &now
	c.UpdatedAt = now
}

// Credit agrega saldo respetando el límite máximo
func (c *Card) Credit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !c.IsActive {
		return ErrInactive
	}
	if c.Balance+amount > MaxBalance {
		return ErrBalanceLimit
	}
	c.Balance += amount
	now := time.Now().UTC()
	c.LastUsedAt = &now
	c.UpdatedAt = now
	return nil
}

// LinkNFC vincula la tarjeta con un UID físico. El vínculo es único y
// se establece una sola vez.
func (c *Card) LinkNFC(uid string) error {
	if c.NFCUID != "" {
		return ErrUIDAlreadyLinked
	}
	c.NFCUID = uid
	c.IsNFCEnabled = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}
