package service

import (
	"context"
	"errors"
	"time"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/gateway/nfcreader"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// CardReader es el cliente del servicio lector de tarjetas NFC
type CardReader interface {
	Status(ctx context.Context) (*nfcreader.ReaderStatus, error)
	WaitForCard(ctx context.Context, timeout time.Duration) (string, error)
}

// ClientDirectory resuelve el nombre del cliente dueño de una tarjeta
type ClientDirectory interface {
	DisplayName(ctx context.Context, clientID string) (string, error)
}

// PaymentValidation es el resultado de validar un pago con el lector:
// tarjeta detectada, saldo actual y saldo que quedaría tras el cobro.
type PaymentValidation struct {
	CardID           string  `json:"card_id"`
	CardNumber       string  `json:"card_number"`
	NFCUID           string  `json:"nfc_uid"`
	ClientName       string  `json:"client_name,omitempty"`
	Balance          float64 `json:"balance"`
	Amount           float64 `json:"amount"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// PaymentReceipt es el comprobante de un cobro o recarga por NFC
type PaymentReceipt struct {
	CardID     string  `json:"card_id"`
	CardNumber string  `json:"card_number"`
	NFCUID     string  `json:"nfc_uid"`
	ClientName string  `json:"client_name,omitempty"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

// BalanceInfo es la consulta de saldo de una tarjeta detectada
type BalanceInfo struct {
	CardID     string  `json:"card_id"`
	CardNumber string  `json:"card_number"`
	NFCUID     string  `json:"nfc_uid"`
	ClientName string  `json:"client_name,omitempty"`
	Balance    float64 `json:"balance"`
}

// NFCService integra el lector físico de tarjetas con las tarjetas
// recargables: validación y cobro de pagos, vínculo tarjeta-UID, recarga
// y consulta de saldo.
type NFCService struct {
	cards       card.Repository
	clients     ClientDirectory
	reader      CardReader
	waitTimeout time.Duration
	logger      logger.Logger
}

// NewNFCService crea una nueva instancia de NFCService
func NewNFCService(cards card.Repository, clients ClientDirectory, reader CardReader, waitTimeout time.Duration, l logger.Logger) *NFCService {
	return &NFCService{cards: cards, clients: clients, reader: reader, waitTimeout: waitTimeout, logger: l}
}

// ReaderStatus consulta el estado del servicio lector
func (s *NFCService) ReaderStatus(ctx context.Context) (*nfcreader.ReaderStatus, error) {
	status, err := s.reader.Status(ctx)
	if err != nil {
		return nil, WrapError(KindNFCUnavailable, "servicio NFC no disponible", err)
	}
	return status, nil
}

// ValidatePayment espera una tarjeta en el lector y verifica que pueda
// cubrir el monto. No cobra: el cobro ocurre en ProcessPayment.
func (s *NFCService) ValidatePayment(ctx context.Context, amount float64, timeout time.Duration) (*PaymentValidation, error) {
	if amount <= 0 {
		return nil, WrapError(KindValidation, "monto inválido", card.ErrInvalidAmount)
	}

	uid, err := s.detectCard(ctx, timeout)
	if err != nil {
		return nil, err
	}

	c, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := c.CanPay(amount); err != nil {
		return nil, WrapError(KindBusiness, "la tarjeta no puede cubrir el monto", err)
	}

	return &PaymentValidation{
		CardID:           c.ID,
		CardNumber:       c.CardNumber,
		NFCUID:           c.NFCUID,
		ClientName:       s.clientName(ctx, c.ClientID),
		Balance:          c.Balance,
		Amount:           amount,
		RemainingBalance: c.Balance - amount,
	}, nil
}

// ProcessPayment cobra un monto a la tarjeta vinculada al UID
func (s *NFCService) ProcessPayment(ctx context.Context, uid string, amount float64) (*PaymentReceipt, error) {
	if amount <= 0 {
		return nil, WrapError(KindValidation, "monto inválido", card.ErrInvalidAmount)
	}
	if uid == "" {
		return nil, NewError(KindValidation, "nfc_uid es requerido")
	}

	c, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := c.CanPay(amount); err != nil {
		return nil, WrapError(KindBusiness, "la tarjeta no puede cubrir el monto", err)
	}

	c.Debit(amount)
	if err := s.cards.UpdateBalance(ctx, c); err != nil {
		return nil, WrapError(KindInternal, "error al cobrar la tarjeta", err)
	}
	s.logger.Info("pago NFC cobrado", "card_id", c.ID, "amount", amount, "balance", c.Balance)

	return &PaymentReceipt{
		CardID:     c.ID,
		CardNumber: c.CardNumber,
		NFCUID:     c.NFCUID,
		ClientName: s.clientName(ctx, c.ClientID),
		Amount:     amount,
		NewBalance: c.Balance,
	}, nil
}

// LinkCard vincula una tarjeta sin UID con la próxima tarjeta física
// detectada por el lector. El vínculo es único y se establece una sola
// vez.
func (s *NFCService) LinkCard(ctx context.Context, cardID string) (*card.Card, error) {
	c, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, WrapError(KindNotFound, "tarjeta no encontrada", err)
		}
		return nil, WrapError(KindInternal, "error al buscar tarjeta", err)
	}
	if c.NFCUID != "" {
		return nil, WrapError(KindBusiness, "la tarjeta ya tiene un UID vinculado", card.ErrUIDAlreadyLinked)
	}

	uid, err := s.detectCard(ctx, s.waitTimeout)
	if err != nil {
		return nil, err
	}

	taken, err := s.cards.NFCUIDExists(ctx, uid)
	if err != nil {
		return nil, WrapError(KindInternal, "error al verificar UID", err)
	}
	if taken {
		return nil, NewError(KindBusiness, "el UID detectado ya está vinculado a otra tarjeta")
	}

	if err := c.LinkNFC(uid); err != nil {
		return nil, WrapError(KindBusiness, "no se pudo vincular la tarjeta", err)
	}
	if err := s.cards.UpdateNFC(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCardDuplicateUID) {
			return nil, WrapError(KindBusiness, "el UID detectado ya está vinculado a otra tarjeta", err)
		}
		return nil, WrapError(KindInternal, "error al persistir vínculo NFC", err)
	}

	s.logger.Info("tarjeta vinculada a UID NFC", "card_id", c.ID, "nfc_uid", uid)
	return c, nil
}

// Reload espera una tarjeta en el lector y le acredita el monto,
// respetando el límite de saldo
func (s *NFCService) Reload(ctx context.Context, amount float64) (*PaymentReceipt, error) {
	if amount <= 0 {
		return nil, WrapError(KindValidation, "monto inválido", card.ErrInvalidAmount)
	}

	uid, err := s.detectCard(ctx, s.waitTimeout)
	if err != nil {
		return nil, err
	}
	c, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := c.Credit(amount); err != nil {
		return nil, WrapError(KindBusiness, "no se pudo recargar la tarjeta", err)
	}
	if err := s.cards.UpdateBalance(ctx, c); err != nil {
		return nil, WrapError(KindInternal, "error al persistir recarga", err)
	}
	s.logger.Info("tarjeta recargada", "card_id", c.ID, "amount", amount, "balance", c.Balance)

	return &PaymentReceipt{
		CardID:     c.ID,
		CardNumber: c.CardNumber,
		NFCUID:     c.NFCUID,
		ClientName: s.clientName(ctx, c.ClientID),
		Amount:     amount,
		NewBalance: c.Balance,
	}, nil
}

// Balance espera una tarjeta en el lector y retorna su saldo
func (s *NFCService) Balance(ctx context.Context) (*BalanceInfo, error) {
	uid, err := s.detectCard(ctx, s.waitTimeout)
	if err != nil {
		return nil, err
	}
	c, err := s.findByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &BalanceInfo{
		CardID:     c.ID,
		CardNumber: c.CardNumber,
		NFCUID:     c.NFCUID,
		ClientName: s.clientName(ctx, c.ClientID),
		Balance:    c.Balance,
	}, nil
}

// detectCard verifica el lector y bloquea hasta detectar una tarjeta
func (s *NFCService) detectCard(ctx context.Context, timeout time.Duration) (string, error) {
	status, err := s.reader.Status(ctx)
	if err != nil {
		return "", WrapError(KindNFCUnavailable, "servicio NFC no disponible", err)
	}
	if !status.Available {
		return "", NewError(KindNFCUnavailable, "lector NFC no disponible: "+status.Message)
	}

	if timeout <= 0 {
		timeout = s.waitTimeout
	}
	uid, err := s.reader.WaitForCard(ctx, timeout)
	if err != nil {
		if errors.Is(err, nfcreader.ErrNoCard) {
			return "", WrapError(KindNoCardDetected, "no se detectó ninguna tarjeta", err)
		}
		return "", WrapError(KindNFCUnavailable, "servicio NFC no disponible", err)
	}
	return uid, nil
}

func (s *NFCService) findByUID(ctx context.Context, uid string) (*card.Card, error) {
	c, err := s.cards.FindByNFCUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, WrapError(KindNotFound, "ninguna tarjeta vinculada al UID detectado", err)
		}
		return nil, WrapError(KindInternal, "error al buscar tarjeta por UID", err)
	}
	return c, nil
}

// clientName resuelve el nombre del dueño para recibos. Best effort: si
// falla, el recibo sale sin nombre.
func (s *NFCService) clientName(ctx context.Context, clientID string) string {
	if clientID == "" {
		return ""
	}
	name, err := s.clients.DisplayName(ctx, clientID)
	if err != nil {
		s.logger.Debug("no se pudo resolver nombre de cliente", "client_id", clientID, "error", err)
		return ""
	}
	return name
}
