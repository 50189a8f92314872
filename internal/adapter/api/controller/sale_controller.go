package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/dto"
	"github.com/lavanderia/lavanderia-backend/internal/domain/sale"
	"github.com/lavanderia/lavanderia-backend/internal/service"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// SaleController maneja las peticiones relacionadas a ventas
type SaleController struct {
	saleSvc *service.SaleService
	monitor *service.Monitor
	logger  logger.Logger
}

// NewSaleController crea una nueva instancia de SaleController
func NewSaleController(saleSvc *service.SaleService, monitor *service.Monitor, logger logger.Logger) *SaleController {
	return &SaleController{
		saleSvc: saleSvc,
		monitor: monitor,
		logger:  logger,
	}
}

// Create crea una nueva venta
// @Summary Crear venta
// @Description Crea una venta de productos y/o servicios de máquina en estado pending
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param sale body dto.CreateSaleRequest true "Datos de la venta"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var req dto.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	employeeID := ctx.GetString("user_id")
	storeID := ctx.GetString("store_id")

	s, err := req.ToSale(employeeID, storeID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "error al armar la venta", err.Error()))
		return
	}

	created, err := c.saleSvc.CreateSale(ctx.Request.Context(), s)
	if err != nil {
		c.logger.Error("error al crear venta", "employee_id", employeeID, "error", err)
		respondServiceError(ctx, err, "error al crear venta")
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("venta creada", created))
}

// List lista ventas con filtros y paginación
// @Summary Listar ventas
// @Description Lista ventas filtradas por estado, empleado, cliente o fecha
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Estado de la venta"
// @Param employee_id query string false "ID del empleado"
// @Param client_id query string false "ID del cliente"
// @Param today query bool false "Solo ventas de hoy"
// @Param exclude_finalized query bool false "Excluir ventas finalizadas"
// @Param page query int false "Página"
// @Param per_page query int false "Resultados por página"
// @Success 200 {object} dto.SaleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	f := sale.Filter{
		Status:           sale.Status(ctx.Query("status")),
		EmployeeID:       ctx.Query("employee_id"),
		ClientID:         ctx.Query("client_id"),
		Today:            ctx.Query("today") == "true",
		ExcludeFinalized: ctx.Query("exclude_finalized") == "true",
	}
	if f.Status != "" && !f.Status.IsValid() {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "estado de venta desconocido", string(f.Status)))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(ctx.DefaultQuery("per_page", "20"))
	p := dto.GetPagination(page, perPage)

	list, err := c.saleSvc.ListSales(ctx.Request.Context(), f, p.Page, p.PerPage)
	if err != nil {
		c.logger.Error("error al listar ventas", "error", err)
		respondServiceError(ctx, err, "error al listar ventas")
		return
	}

	ctx.JSON(http.StatusOK, dto.FromSaleList(list))
}

// Get busca una venta por ID
// @Summary Buscar venta
// @Description Busca una venta con todas sus líneas por ID
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID de la venta"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	s, err := c.saleSvc.GetSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err, "error al buscar venta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("venta encontrada", s))
}

// UpdateStatus aplica una transición explícita de estado
// @Summary Actualizar estado de venta
// @Description Aplica una transición del estado de la venta (pending→completed→finalized, pending→cancelled)
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID de la venta"
// @Param status body dto.UpdateSaleStatusRequest true "Nuevo estado"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/{id}/status [put]
func (c *SaleController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateSaleStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "datos inválidos", err.Error()))
		return
	}

	s, err := c.saleSvc.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), sale.Status(req.Status))
	if err != nil {
		respondServiceError(ctx, err, "error al actualizar estado de venta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("estado actualizado", s))
}

// Complete despacha el arranque físico de los servicios de la venta
// @Summary Completar venta
// @Description Arranca las máquinas de los servicios pendientes y pasa la venta a completed
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID de la venta"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /sales/{id}/complete [post]
func (c *SaleController) Complete(ctx *gin.Context) {
	s, err := c.saleSvc.CompleteSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.logger.Error("error al completar venta", "sale_id", ctx.Param("id"), "error", err)
		respondServiceError(ctx, err, "error al completar venta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("venta completada", s))
}

// Finalize cierra una venta con todos sus servicios completados
// @Summary Finalizar venta
// @Description Pasa una venta completada a finalized; requiere todos los servicios completados
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID de la venta"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/{id}/finalize [post]
func (c *SaleController) Finalize(ctx *gin.Context) {
	s, err := c.saleSvc.FinalizeSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err, "error al finalizar venta")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("venta finalizada", s))
}

// Summary agrega ventas por estado en un rango de fechas
// @Summary Resumen de ventas
// @Description Agrega conteos y montos por estado en un rango de fechas (por defecto, hoy)
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param start_date query string false "Fecha inicial (YYYY-MM-DD)"
// @Param end_date query string false "Fecha final (YYYY-MM-DD)"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /sales/summary [get]
func (c *SaleController) Summary(ctx *gin.Context) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	if v := ctx.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "start_date inválida", err.Error()))
			return
		}
		from = parsed
	}
	if v := ctx.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "end_date inválida", err.Error()))
			return
		}
		to = parsed.Add(24 * time.Hour)
	}

	summary, err := c.saleSvc.Summary(ctx.Request.Context(), from, to)
	if err != nil {
		respondServiceError(ctx, err, "error al calcular resumen")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("resumen de ventas", summary))
}

// DeactivateMachines libera máquinas con servicios vencidos
// @Summary Desactivar máquinas vencidas
// @Description Libera las máquinas cuyos servicios activos ya vencieron y completa esas líneas
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/deactivate-machines [post]
func (c *SaleController) DeactivateMachines(ctx *gin.Context) {
	count, err := c.saleSvc.CheckAndDeactivateMachines(ctx.Request.Context())
	if err != nil {
		c.logger.Error("error al desactivar máquinas vencidas", "error", err)
		respondServiceError(ctx, err, "error al desactivar máquinas")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("máquinas desactivadas", dto.CheckServicesResponse{CompletedServices: count}))
}

// MonitorStatus retorna la foto del monitor de finalización
// @Summary Estado del monitor
// @Description Retorna el estado del monitor de finalización de servicios
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /sales/monitor-status [get]
func (c *SaleController) MonitorStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("estado del monitor", c.monitor.Status()))
}

// CheckServicesNow fuerza una corrida inmediata del monitor
// @Summary Forzar chequeo de servicios
// @Description Ejecuta una pasada inmediata del monitor de finalización
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/check-services-now [post]
func (c *SaleController) CheckServicesNow(ctx *gin.Context) {
	count, err := c.monitor.Tick(ctx.Request.Context())
	if err != nil {
		c.logger.Error("error en chequeo forzado de servicios", "error", err)
		respondServiceError(ctx, err, "error al chequear servicios")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("chequeo ejecutado", dto.CheckServicesResponse{CompletedServices: count}))
}
