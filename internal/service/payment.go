package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
)

// validatePayments verifica que la suma de pagos iguale el total de la
// venta y que cada tarjeta recargable pueda cubrir su monto. No produce
// efectos: el cobro ocurre en processPayments.
func (s *SaleService) validatePayments(ctx context.Context, sl *sale.Sale) error {
	if !sl.PaymentsMatchTotal() {
		return WrapError(KindValidation,
			fmt.Sprintf("los pagos suman %.2f pero la venta es de %.2f", sl.PaymentsTotal(), sl.TotalAmount),
			sale.ErrPaymentMismatch)
	}

	for i, pm := range sl.Payments {
		if pm.Type != sale.PaymentStoredValue {
			continue
		}
		c, err := s.resolveCard(ctx, pm)
		if err != nil {
			return err
		}
		if err := c.CanPay(pm.Amount); err != nil {
			return WrapError(KindBusiness,
				fmt.Sprintf("la tarjeta del pago %d no puede cubrir el monto", i+1), err)
		}
	}
	return nil
}

// processPayments cobra los pagos con tarjeta recargable. El primer
// fallo aborta e identifica el instrumento; los cobros anteriores de la
// misma corrida no se reintegran.
func (s *SaleService) processPayments(ctx context.Context, sl *sale.Sale) error {
	for i, pm := range sl.Payments {
		if pm.Type != sale.PaymentStoredValue {
			continue
		}

		c, err := s.resolveCard(ctx, pm)
		if err != nil {
			return err
		}
		if err := c.CanPay(pm.Amount); err != nil {
			return WrapError(KindBusiness,
				fmt.Sprintf("la tarjeta del pago %d no puede cubrir el monto", i+1), err)
		}

		c.Debit(pm.Amount)
		if err := s.cards.UpdateBalance(ctx, c); err != nil {
			return WrapError(KindInternal,
				fmt.Sprintf("error al cobrar el pago %d", i+1), err)
		}
		s.logger.Info("pago con tarjeta cobrado",
			"sale_id", sl.ID, "card_id", c.ID, "amount", pm.Amount, "balance", c.Balance)
	}
	return nil
}

// resolveCard busca la tarjeta del método de pago por ID o por UID NFC
func (s *SaleService) resolveCard(ctx context.Context, pm sale.PaymentMethod) (*card.Card, error) {
	var (
		c   *card.Card
		err error
	)
	if pm.CardID != "" {
		c, err = s.cards.FindByID(ctx, pm.CardID)
	} else {
		c, err = s.cards.FindByNFCUID(ctx, pm.NFCUID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			return nil, WrapError(KindNotFound, "tarjeta no encontrada", err)
		}
		return nil, WrapError(KindInternal, "error al buscar tarjeta", err)
	}
	return c, nil
}
