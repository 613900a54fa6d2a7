package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"chainscan/internal/cache"
	"chainscan/internal/chain"
	"chainscan/internal/dao"
	"chainscan/internal/models"
	"chainscan/internal/notification"
	"chainscan/pkg/analyzer"
	"chainscan/pkg/logger"
)

// WorkerService executes dequeued scan jobs: running -> fetch execution
// context -> analyze -> succeeded/failed, plus report-cache writeback and
// the parent contract's risk rollup.
type WorkerService struct {
	scanDao       dao.ScanDAO
	contractDao   dao.ContractDAO
	cache         cache.Cache
	source        chain.Source
	analyzer      *analyzer.Analyzer
	statusManager *ScanStatusManager
	notifier      *notification.NotificationClient
	gate          *JobGate
	logger        *logger.Logger
}

func NewWorkerService(
	scanDao dao.ScanDAO,
	contractDao dao.ContractDAO,
	cache cache.Cache,
	source chain.Source,
	analyzer *analyzer.Analyzer,
	notifier *notification.NotificationClient,
	maxConcurrent int,
) *WorkerService {
	log := logger.NewLogger(logrus.InfoLevel)
	return &WorkerService{
		scanDao:       scanDao,
		contractDao:   contractDao,
		cache:         cache,
		source:        source,
		analyzer:      analyzer,
		statusManager: NewScanStatusManager(scanDao, log),
		notifier:      notifier,
		gate:          NewJobGate(maxConcurrent, log),
		logger:        log,
	}
}

// HandleScanJob processes one job to completion. Any error terminates the
// job into failed with the message captured; nothing is retried here.
func (w *WorkerService) HandleScanJob(ctx context.Context, payload models.ScanJobPayload) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic in scan job", logger.Fields{"scan_id": payload.ScanID, "panic": r})
			w.statusManager.MarkFailedWithReason(payload.ScanID, fmt.Sprintf("panic during analysis: %v", r))
		}
	}()

	_ = w.gate.Execute(func() error {
		w.runJob(ctx, payload)
		return nil
	})
}

func (w *WorkerService) runJob(ctx context.Context, payload models.ScanJobPayload) {
	scan, err := w.statusManager.MarkRunning(payload.ScanID)
	if err != nil {
		// At-least-once delivery can replay a job whose scan already
		// moved on; that is a skip, not a failure.
		w.logger.Warn("Skipping job, scan not pending", logger.Fields{"scan_id": payload.ScanID, "error": err})
		return
	}

	w.logger.Info("Scan job started", logger.Fields{
		"scan_id": scan.UUID,
		"address": payload.Address,
		"network": payload.Network,
	})

	report, err := w.analyze(ctx, payload)
	if err != nil {
		// A failed scan must not look like a cached success: the report
		// cache is only written on the success path below.
		w.statusManager.MarkFailedWithReason(scan.UUID, err.Error())
		return
	}

	if err := w.statusManager.MarkSucceeded(scan, report); err != nil {
		w.logger.Error("Failed to finalize scan", logger.Fields{"scan_id": scan.UUID, "error": err})
		return
	}

	w.cache.SetReport(ctx, scan.UUID, &models.CachedReport{
		Status:      models.StatusSucceeded,
		CompletedAt: scan.UpdatedAt,
		Scan:        *scan,
	})

	w.rollUpContract(payload.ContractID, scan)
	w.notifyIfSevere(scan)

	w.logger.Info("Scan job completed", logger.Fields{
		"scan_id":    scan.UUID,
		"risk_score": scan.RiskScore,
		"risk_level": scan.RiskLevel,
	})
}

// analyze fetches the execution context (bytecode through the cache,
// balance and block height from the chain) and runs the analysis core.
func (w *WorkerService) analyze(ctx context.Context, payload models.ScanJobPayload) (*analyzer.Report, error) {
	bytecode, cached := w.cache.GetBytecode(ctx, payload.Network, payload.Address)
	if !cached {
		var err error
		bytecode, err = w.source.Bytecode(ctx, payload.Address)
		if err != nil {
			return nil, err
		}
		w.cache.SetBytecode(ctx, payload.Network, payload.Address, bytecode)
	}

	balance, err := w.source.Balance(ctx, payload.Address)
	if err != nil {
		return nil, err
	}
	height, err := w.source.BlockHeight(ctx)
	if err != nil {
		return nil, err
	}

	return w.analyzer.Analyze(analyzer.Request{
		Bytecode:    bytecode,
		ABI:         payload.ABI,
		Balance:     balance,
		BlockHeight: &height,
	})
}

// rollUpContract mirrors the completed scan onto the parent contract.
func (w *WorkerService) rollUpContract(contractID string, scan *models.Scan) {
	contract, err := w.contractDao.GetContractByID(contractID)
	if err != nil {
		w.logger.Error("Failed to load contract for rollup", logger.Fields{"error": err, "contract_id": contractID})
		return
	}

	contract.LatestScanID = scan.UUID
	contract.RiskScore = scan.RiskScore
	contract.RiskLevel = scan.RiskLevel

	if err := w.contractDao.UpdateContract(contract); err != nil {
		w.logger.Error("Failed to update contract rollup", logger.Fields{"error": err, "contract_id": contractID})
	}
}

func (w *WorkerService) notifyIfSevere(scan *models.Scan) {
	if w.notifier == nil {
		return
	}
	if scan.RiskLevel != string(analyzer.SeverityHigh) && scan.RiskLevel != string(analyzer.SeverityCritical) {
		return
	}

	if err := w.notifier.SendScanAlert(scan.Address, scan.Network, scan.RiskLevel, scan.RiskScore, len(scan.Findings)); err != nil {
		w.logger.Error("Failed to send scan alert", logger.Fields{"error": err, "scan_id": scan.UUID})
	}
}
