package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chainscan/internal/services"
	"chainscan/pkg/logger"
)

type ContractHandler struct {
	contractService services.ContractServiceMethods
	scanService     services.ScanServiceMethods
	logger          *logger.Logger
}

func NewContractHandler(contractService services.ContractServiceMethods, scanService services.ScanServiceMethods) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		scanService:     scanService,
		logger:          logger.NewLogger(logrus.InfoLevel),
	}
}

// SubmitContract upserts a contract record and optionally submits a scan
// for it in the same request.
func (h *ContractHandler) SubmitContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", logger.Fields{"error": err})
		c.JSON(400, gin.H{"error": "Invalid request payload"})
		return
	}

	contract, err := h.contractService.UpsertContract(c.Request.Context(), services.ContractSubmission{
		Address:  req.Address,
		Network:  req.Network,
		Labels:   req.Labels,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.logger.Error("Failed to upsert contract:", logger.Fields{"error": err, "address": req.Address})
		respondError(c, err, "Failed to register contract")
		return
	}

	response := gin.H{"contract": contract}
	if req.Scan {
		scan, err := h.scanService.SubmitScan(c.Request.Context(), services.ScanSubmission{
			Address: req.Address,
			Network: req.Network,
		})
		if err != nil {
			h.logger.Error("Failed to submit scan for contract:", logger.Fields{"error": err, "address": req.Address})
			respondError(c, err, "Failed to submit scan")
			return
		}
		response["scan"] = ScanResponse{ScanID: scan.UUID, Status: scan.Status}
	}

	c.JSON(200, response)
}

func (h *ContractHandler) GetContract(c *gin.Context) {
	contract, err := h.contractService.GetContract(c.Param("address"), c.Param("network"))
	if err != nil {
		h.logger.Error("Failed to get contract:", logger.Fields{"error": err})
		respondError(c, err, "Failed to get contract")
		return
	}
	c.JSON(200, contract)
}

func (h *ContractHandler) ListContracts(c *gin.Context) {
	riskLevel := c.Query("risk_level")
	network := c.Query("network")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	contracts, total, err := h.contractService.ListContracts(riskLevel, network, page, limit)
	if err != nil {
		h.logger.Error("Failed to list contracts:", logger.Fields{"error": err})
		respondError(c, err, "Failed to list contracts")
		return
	}

	c.JSON(200, gin.H{
		"contracts": contracts,
		"meta":      ListMeta{Page: page, Limit: limit, Total: total},
	})
}

// GetSnapshot serves current chain state for an address through the
// bytecode cache.
func (h *ContractHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.contractService.Snapshot(c.Request.Context(), c.Param("address"), c.Param("network"))
	if err != nil {
		h.logger.Error("Failed to get snapshot:", logger.Fields{"error": err})
		respondError(c, err, "Failed to get chain snapshot")
		return
	}
	c.JSON(200, snapshot)
}
