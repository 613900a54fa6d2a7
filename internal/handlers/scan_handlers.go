package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chainscan/internal/services"
	"chainscan/pkg/logger"
)

type ScanHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewScanHandler(scanService services.ScanServiceMethods) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

func (h *ScanHandler) SubmitScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", logger.Fields{"error": err})
		c.JSON(400, gin.H{"error": "Invalid request payload"})
		return
	}

	scan, err := h.scanService.SubmitScan(c.Request.Context(), services.ScanSubmission{
		Address:  req.Address,
		Network:  req.Network,
		ABI:      req.ABI,
		Labels:   req.Labels,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.logger.Error("Failed to submit scan:", logger.Fields{"error": err, "address": req.Address})
		respondError(c, err, "Failed to submit scan")
		return
	}

	c.JSON(202, ScanResponse{ScanID: scan.UUID, Status: scan.Status})
}

func (h *ScanHandler) GetScanByUUID(c *gin.Context) {
	scanID := c.Param("id")

	report, err := h.scanService.LookupScan(c.Request.Context(), scanID)
	if err != nil {
		h.logger.Error("Failed to get scan:", logger.Fields{"error": err, "scan_id": scanID})
		respondError(c, err, "Failed to get scan")
		return
	}
	c.JSON(200, report)
}

func (h *ScanHandler) ListScans(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	scans, total, err := h.scanService.ListScans(status, page, limit)
	if err != nil {
		h.logger.Error("Failed to list scans:", logger.Fields{"error": err})
		respondError(c, err, "Failed to list scans")
		return
	}

	c.JSON(200, gin.H{
		"scans": scans,
		"meta":  ListMeta{Page: page, Limit: limit, Total: total},
	})
}

func (h *ScanHandler) ForceFailScan(c *gin.Context) {
	scanID := c.Param("id")

	var req ForceFailRequest
	_ = c.ShouldBindJSON(&req)

	scan, err := h.scanService.ForceFail(scanID, req.Reason)
	if err != nil {
		h.logger.Error("Failed to force-fail scan:", logger.Fields{"error": err, "scan_id": scanID})
		respondError(c, err, "Failed to force-fail scan")
		return
	}
	c.JSON(200, scan)
}
