package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chainscan/internal/cache"
	"chainscan/internal/chain"
	"chainscan/internal/dao"
	"chainscan/internal/handlers"
	"chainscan/internal/queue"
	"chainscan/internal/services"
)

// Dependencies are the external collaborators the API wires together.
type Dependencies struct {
	DB             *gorm.DB
	Cache          cache.Cache
	Source         chain.Source
	Enqueuer       queue.Enqueuer
	DefaultNetwork string
}

func InitRouter(deps Dependencies) *gin.Engine {
	router := gin.Default()

	scanDao := dao.NewScanDAO(deps.DB)
	contractDao := dao.NewContractDAO(deps.DB)

	contractService := services.NewContractService(contractDao, deps.Cache, deps.Source, deps.DefaultNetwork)
	scanService := services.NewScanService(scanDao, contractService, deps.Enqueuer, deps.Cache)
	dashboardService := services.NewDashboardService(scanDao, contractDao)

	scanHandler := handlers.NewScanHandler(scanService)
	contractHandler := handlers.NewContractHandler(contractService, scanService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	api := router.Group("/api")
	{
		InitScanRoutes(api, scanHandler)
		InitContractRoutes(api, contractHandler)
		api.GET("/dashboard", dashboardHandler.GetAggregates)
	}

	return router
}
