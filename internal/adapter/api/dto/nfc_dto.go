package dto

// ValidatePaymentRequest es el cuerpo de validación de pago por NFC.
// Timeout se interpreta en segundos; cero usa el valor configurado.
type ValidatePaymentRequest struct {
	Amount  float64 `json:"amount" binding:"required"`
	Timeout int     `json:"timeout"`
}

// ProcessPaymentRequest es el cuerpo de cobro por NFC
type ProcessPaymentRequest struct {
	NFCUID string  `json:"nfc_uid" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// LinkCardRequest es el cuerpo de vínculo tarjeta-UID
type LinkCardRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

// ReloadRequest es el cuerpo de recarga de tarjeta por NFC
type ReloadRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}
