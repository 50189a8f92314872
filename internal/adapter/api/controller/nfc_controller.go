package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/dto"
	"github.com/lavanderia/lavanderia-backend/internal/service"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// NFCController maneja las peticiones del flujo de tarjetas NFC
type NFCController struct {
	nfcSvc *service.NFCService
	logger logger.Logger
}

// NewNFCController crea una nueva instancia de NFCController
func NewNFCController(nfcSvc *service.NFCService, logger logger.Logger) *NFCController {
	return &NFCController{nfcSvc: nfcSvc, logger: logger}
}

// Status consulta el estado del servicio lector
// @Summary Estado del lector NFC
// @Description Retorna la disponibilidad del servicio lector de tarjetas
// @Tags nfc
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /nfc/status [get]
func (c *NFCController) Status(ctx *gin.Context) {
	status, err := c.nfcSvc.ReaderStatus(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err, "servicio NFC no disponible")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("estado del lector", status))
}

// ValidatePayment espera una tarjeta y valida que pueda cubrir el monto
// @Summary Validar pago NFC
// @Description Espera una tarjeta en el lector y verifica saldo suficiente; no cobra
// @Tags nfc
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.ValidatePaymentRequest true "Monto y timeout de espera"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 408 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /nfc/validate-payment [post]
func (c *NFCController) ValidatePayment(ctx *gin.Context) {
	var req dto.ValidatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	timeout := time.Duration(req.Timeout) * time.Second
	result, err := c.nfcSvc.ValidatePayment(ctx.Request.Context(), req.Amount, timeout)
	if err != nil {
		respondServiceError(ctx, err, "error al validar pago NFC")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pago validado", result))
}

// ProcessPayment cobra un monto a la tarjeta vinculada al UID
// @Summary Procesar pago NFC
// @Description Debita el monto de la tarjeta vinculada al UID informado
// @Tags nfc
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.ProcessPaymentRequest true "UID y monto"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /nfc/process-payment [post]
func (c *NFCController) ProcessPayment(ctx *gin.Context) {
	var req dto.ProcessPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	receipt, err := c.nfcSvc.ProcessPayment(ctx.Request.Context(), req.NFCUID, req.Amount)
	if err != nil {
		c.logger.Error("error al procesar pago NFC", "nfc_uid", req.NFCUID, "error", err)
		respondServiceError(ctx, err, "error al procesar pago NFC")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pago procesado", receipt))
}

// LinkCard vincula una tarjeta con la próxima tarjeta física detectada
// @Summary Vincular tarjeta a NFC
// @Description Espera una tarjeta en el lector y la vincula con la tarjeta recargable
// @Tags nfc
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param link body dto.LinkCardRequest true "ID de la tarjeta"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 408 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /nfc/link-card [post]
func (c *NFCController) LinkCard(ctx *gin.Context) {
	var req dto.LinkCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	card, err := c.nfcSvc.LinkCard(ctx.Request.Context(), req.CardID)
	if err != nil {
		respondServiceError(ctx, err, "error al vincular tarjeta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("tarjeta vinculada", card))
}

// Reload espera una tarjeta y le acredita el monto
// @Summary Recargar tarjeta por NFC
// @Description Espera una tarjeta en el lector y acredita el monto respetando el límite de saldo
// @Tags nfc
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reload body dto.ReloadRequest true "Monto a recargar"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 408 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /nfc/reload [post]
func (c *NFCController) Reload(ctx *gin.Context) {
	var req dto.ReloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	receipt, err := c.nfcSvc.Reload(ctx.Request.Context(), req.Amount)
	if err != nil {
		respondServiceError(ctx, err, "error al recargar tarjeta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("tarjeta recargada", receipt))
}

// Balance espera una tarjeta y retorna su saldo
// @Summary Consultar saldo por NFC
// @Description Espera una tarjeta en el lector y retorna su saldo y dueño
// @Tags nfc
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 408 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /nfc/balance [get]
func (c *NFCController) Balance(ctx *gin.Context) {
	info, err := c.nfcSvc.Balance(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err, "error al consultar saldo")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("saldo de la tarjeta", info))
}
