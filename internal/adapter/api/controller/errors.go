package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/dto"
	"github.com/lavanderia/lavanderia-backend/internal/service"
)

// statusForKind mapea la clase de error de negocio al código HTTP
func statusForKind(kind string) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindBusiness:
		return http.StatusUnprocessableEntity
	case service.KindNoCardDetected:
		return http.StatusRequestTimeout
	case service.KindNFCUnavailable:
		return http.StatusServiceUnavailable
	case service.KindActivationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError escribe la respuesta de error con la clase y el
// código HTTP que corresponden al error de servicio
func respondServiceError(ctx *gin.Context, err error, message string) {
	kind := service.KindOf(err)
	code := statusForKind(kind)
	ctx.JSON(code, dto.NewTypedErrorResponse(code, kind, message, err.Error()))
}
