package dto

// ErrorResponse es la estructura de respuesta para errores. ErrorType
// lleva la clase de error de negocio (validation, business, not_found,
// nfc_unavailable, no_card_detected, esp32_activation_failed, internal).
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
	Details   string `json:"details,omitempty"`
}

// SuccessResponse es la respuesta genérica de éxito
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse crea una nueva respuesta de éxito
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse crea una nueva respuesta de error sin clase de negocio
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewTypedErrorResponse crea una respuesta de error con clase de negocio
func NewTypedErrorResponse(code int, errorType, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:      code,
		Message:   message,
		ErrorType: errorType,
		Details:   details,
	}
}

// PaginationParams son los parámetros de paginación de listados
type PaginationParams struct {
	Page    int
	PerPage int
}

// GetPagination normaliza los parámetros de paginación
func GetPagination(page, perPage int) PaginationParams {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	} else if perPage > 100 {
		perPage = 100
	}
	return PaginationParams{Page: page, PerPage: perPage}
}
