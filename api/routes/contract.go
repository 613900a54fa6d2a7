package routes

import (
	"github.com/gin-gonic/gin"

	"chainscan/internal/handlers"
)

func InitContractRoutes(router *gin.RouterGroup, h *handlers.ContractHandler) {
	contractRoutes := router.Group("/contracts")
	{
		contractRoutes.POST("", h.SubmitContract)
		contractRoutes.GET("", h.ListContracts)
		contractRoutes.GET("/:network/:address", h.GetContract)
		contractRoutes.GET("/:network/:address/snapshot", h.GetSnapshot)
	}
}
