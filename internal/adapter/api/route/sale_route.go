package route

import (
	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/controller"
	"github.com/lavanderia/lavanderia-backend/pkg/middleware"
)

// RegisterSaleRoutes registra las rutas del módulo de ventas. Las rutas
// estáticas se registran antes que /:id para que gin no las capture como
// parámetro.
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController) {
	sales := r.Group("/sales")
	sales.Use(middleware.EmployeeRequired())
	{
		sales.GET("/summary", middleware.AdminRequired(), saleController.Summary)
		sales.POST("/deactivate-machines", middleware.AdminRequired(), saleController.DeactivateMachines)
		sales.GET("/monitor-status", middleware.AdminRequired(), saleController.MonitorStatus)
		sales.POST("/check-services-now", middleware.AdminRequired(), saleController.CheckServicesNow)

		sales.POST("", saleController.Create)
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.Get)
		sales.PUT("/:id/status", saleController.UpdateStatus)
		sales.POST("/:id/complete", saleController.Complete)
		sales.POST("/:id/finalize", saleController.Finalize)
	}
}
