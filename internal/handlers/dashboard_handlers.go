package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chainscan/internal/services"
	"chainscan/pkg/logger"
)

type DashboardHandler struct {
	dashboardService services.DashboardServiceMethods
	logger           *logger.Logger
}

func NewDashboardHandler(dashboardService services.DashboardServiceMethods) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger.NewLogger(logrus.InfoLevel)}
}

func (h *DashboardHandler) GetAggregates(c *gin.Context) {
	aggregates, err := h.dashboardService.GetAggregates()
	if err != nil {
		h.logger.Error("Failed to load dashboard aggregates:", logger.Fields{"error": err})
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(200, aggregates)
}
