package service

import "errors"

// Clases de error de negocio. Los controladores mapean cada clase a un
// código HTTP.
const (
	KindValidation       = "validation"
	KindBusiness         = "business"
	KindNotFound         = "not_found"
	KindNFCUnavailable   = "nfc_unavailable"
	KindNoCardDetected   = "no_card_detected"
	KindActivationFailed = "esp32_activation_failed"
	KindInternal         = "internal"
)

// Error es el error estructurado de la capa de servicios
type Error struct {
	Kind    string
	Message string
	Err     error
}

// Error implementa la interfaz error
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap expone el error subyacente para errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError crea un error de servicio sin causa subyacente
func NewError(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError crea un error de servicio envolviendo la causa
func WrapError(kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf retorna la clase de un error. Errores desconocidos son internos.
func KindOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
