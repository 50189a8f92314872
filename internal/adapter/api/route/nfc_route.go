package route

import (
	"github.com/gin-gonic/gin"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/controller"
	"github.com/lavanderia/lavanderia-backend/pkg/middleware"
)

// RegisterNFCRoutes registra las rutas del flujo de tarjetas NFC
func RegisterNFCRoutes(r *gin.RouterGroup, nfcController *controller.NFCController) {
	nfc := r.Group("/nfc")
	nfc.Use(middleware.EmployeeRequired())
	{
		nfc.GET("/status", nfcController.Status)
		nfc.POST("/validate-payment", nfcController.ValidatePayment)
		nfc.POST("/process-payment", nfcController.ProcessPayment)
		nfc.POST("/link-card", nfcController.LinkCard)
		nfc.POST("/reload", nfcController.Reload)
		nfc.GET("/balance", nfcController.Balance)
	}
}
