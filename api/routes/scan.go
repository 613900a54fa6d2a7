package routes

import (
	"github.com/gin-gonic/gin"

	"chainscan/internal/handlers"
)

func InitScanRoutes(router *gin.RouterGroup, h *handlers.ScanHandler) {
	scanRoutes := router.Group("/scans")
	{
		scanRoutes.POST("", h.SubmitScan)
		scanRoutes.GET("", h.ListScans)
		scanRoutes.GET("/:id", h.GetScanByUUID)
		scanRoutes.POST("/:id/fail", h.ForceFailScan)
	}
}
