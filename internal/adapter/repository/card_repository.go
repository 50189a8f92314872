package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia/lavanderia-backend/internal/domain/card"
)

// Errores específicos del repositorio de tarjetas
var (
	ErrCardNotFound     = errors.New("tarjeta no encontrada")
	ErrCardDuplicateUID = errors.New("UID NFC ya vinculado a otra tarjeta")
)

// CardRepository implementa card.Repository sobre PostgreSQL
type CardRepository struct {
	db *pgxpool.Pool
}

// NewCardRepository crea una nueva instancia de CardRepository
func NewCardRepository(db *pgxpool.Pool) card.Repository {
	return &CardRepository{db: db}
}

// GenerateCardNumber genera un número de tarjeta de 12 dígitos no usado
func (r *CardRepository) GenerateCardNumber(ctx context.Context) (string, error) {
	for i := 0; i < 10; i++ {
		digits := make([]byte, 12)
		for j := range digits {
			digits[j] = byte('0' + rand.Intn(10))
		}
		number := string(digits)

		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM cards WHERE card_number = $1)", number).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("error al verificar número de tarjeta: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.New("no se pudo generar un número de tarjeta único")
}

// Create implementa card.Repository.Create
func (r *CardRepository) Create(ctx context.Context, c *card.Card) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cards (id, client_id, card_number, balance, nfc_uid, is_nfc_enabled,
		                    is_active, last_used_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)`,
		c.ID, c.ClientID, c.CardNumber, c.Balance, c.NFCUID, c.IsNFCEnabled,
		c.IsActive, c.LastUsedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCardDuplicateUID
		}
		return fmt.Errorf("error al crear tarjeta: %w", err)
	}
	return nil
}

// FindByID implementa card.Repository.FindByID
func (r *CardRepository) FindByID(ctx context.Context, id string) (*card.Card, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByNFCUID implementa card.Repository.FindByNFCUID
func (r *CardRepository) FindByNFCUID(ctx context.Context, uid string) (*card.Card, error) {
	return r.findOne(ctx, "nfc_uid = $1 AND is_active = TRUE", uid)
}

// NFCUIDExists implementa card.Repository.NFCUIDExists
func (r *CardRepository) NFCUIDExists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM cards WHERE nfc_uid = $1)", uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error al verificar UID NFC: %w", err)
	}
	return exists, nil
}

// UpdateBalance implementa card.Repository.UpdateBalance
func (r *CardRepository) UpdateBalance(ctx context.Context, c *card.Card) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cards SET balance = $2, last_used_at = $3, updated_at = NOW()
		 WHERE id = $1`, c.ID, c.Balance, c.LastUsedAt)
	if err != nil {
		return fmt.Errorf("error al actualizar saldo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

// UpdateNFC implementa card.Repository.UpdateNFC
func (r *CardRepository) UpdateNFC(ctx context.Context, c *card.Card) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cards SET nfc_uid = NULLIF($2, ''), is_nfc_enabled = $3, updated_at = NOW()
		 WHERE id = $1`, c.ID, c.NFCUID, c.IsNFCEnabled)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCardDuplicateUID
		}
		return fmt.Errorf("error al actualizar UID NFC: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) findOne(ctx context.Context, cond string, arg interface{}) (*card.Card, error) {
	var c card.Card
	var nfcUID *string

	err := r.db.QueryRow(ctx,
		`SELECT id, client_id, card_number, balance, nfc_uid, is_nfc_enabled,
		        is_active, last_used_at, created_at, updated_at
		 FROM cards WHERE `+cond, arg).Scan(
		&c.ID, &c.ClientID, &c.CardNumber, &c.Balance, &nfcUID, &c.IsNFCEnabled,
		&c.IsActive, &c.LastUsedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("error al buscar tarjeta: %w", err)
	}
	if nfcUID != nil {
		c.NFCUID = *nfcUID
	}
	return &c, nil
}
