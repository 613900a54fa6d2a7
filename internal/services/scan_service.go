package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chainscan/internal/cache"
	"chainscan/internal/dao"
	"chainscan/internal/models"
	"chainscan/internal/queue"
	pkgerrors "chainscan/pkg/errors"
	"chainscan/pkg/logger"
)

// ScanSubmission is the caller-supplied request for one analysis.
type ScanSubmission struct {
	Address  string
	Network  string
	ABI      string
	Labels   []string
	Metadata map[string]string
}

type ScanServiceMethods interface {
	// SubmitScan runs the submission protocol: normalize, upsert the
	// contract, dedup against an active scan, create pending, enqueue.
	// A returned scan may be a pre-existing active one.
	SubmitScan(ctx context.Context, sub ScanSubmission) (*models.Scan, error)
	// LookupScan returns a scan in its terminal wrapper shape, serving
	// from the report cache when possible.
	LookupScan(ctx context.Context, id string) (*models.CachedReport, error)
	ListScans(status string, page, limit int) ([]models.Scan, int64, error)
	// ForceFail is the operator escape hatch for a scan stuck in running
	// after a worker crash.
	ForceFail(id, reason string) (*models.Scan, error)
}

type scanService struct {
	scanDao     dao.ScanDAO
	contractSvc ContractServiceMethods
	enqueuer    queue.Enqueuer
	cache       cache.Cache
	logger      *logger.Logger
}

func NewScanService(scanDao dao.ScanDAO, contractSvc ContractServiceMethods, enqueuer queue.Enqueuer, cache cache.Cache) ScanServiceMethods {
	return &scanService{
		scanDao:     scanDao,
		contractSvc: contractSvc,
		enqueuer:    enqueuer,
		cache:       cache,
		logger:      logger.NewLogger(logrus.InfoLevel),
	}
}

func (s *scanService) SubmitScan(ctx context.Context, sub ScanSubmission) (*models.Scan, error) {
	contract, err := s.contractSvc.UpsertContract(ctx, ContractSubmission{
		Address:  sub.Address,
		Network:  sub.Network,
		Labels:   sub.Labels,
		Metadata: sub.Metadata,
	})
	if err != nil {
		return nil, err
	}

	// Dedup: at most one pending/running scan per contract. Returning the
	// existing scan unchanged keeps resubmission idempotent.
	active, err := s.scanDao.FindActiveScan(contract.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		s.logger.Info("Returning existing active scan", logger.Fields{
			"scan_id": active.UUID,
			"address": contract.Address,
			"status":  active.Status,
		})
		return active, nil
	}

	scan := &models.Scan{
		UUID:       uuid.New().String(),
		ContractID: contract.ID,
		Address:    contract.Address,
		Network:    contract.Network,
		Status:     models.StatusPending,
		ABI:        sub.ABI,
	}

	existing, err := s.scanDao.CreateScan(scan)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Lost the insert race; the partial index picked the winner.
		return existing, nil
	}

	payload := models.ScanJobPayload{
		ScanID:     scan.UUID,
		ContractID: contract.ID,
		Address:    contract.Address,
		Network:    contract.Network,
		ABI:        sub.ABI,
	}

	if err := s.enqueuer.EnqueueScan(ctx, payload); err != nil {
		// The scan stays visibly pending rather than being silently
		// lost; it blocks resubmission until force-failed.
		s.logger.Error("Enqueue failed, scan left pending", logger.Fields{
			"error":   err,
			"scan_id": scan.UUID,
			"address": contract.Address,
		})
		return nil, err
	}

	s.logger.Info("Scan submitted", logger.Fields{
		"scan_id": scan.UUID,
		"address": contract.Address,
		"network": contract.Network,
	})
	return scan, nil
}

func (s *scanService) LookupScan(ctx context.Context, id string) (*models.CachedReport, error) {
	if cached, ok := s.cache.GetReport(ctx, id); ok {
		return cached, nil
	}

	scan, err := s.scanDao.GetScanByUUID(id)
	if err != nil {
		return nil, err
	}

	report := &models.CachedReport{Status: scan.Status, Scan: *scan}
	if scan.Status == models.StatusSucceeded || scan.Status == models.StatusFailed {
		report.CompletedAt = scan.UpdatedAt
	}
	return report, nil
}

func (s *scanService) ListScans(status string, page, limit int) ([]models.Scan, int64, error) {
	if status != "" && !models.IsValidStatus(status) {
		return nil, 0, pkgerrors.NewValidationError("status", status, "must be one of pending, running, succeeded, failed")
	}
	return s.scanDao.ListScansWithPagination(status, page, limit)
}

func (s *scanService) ForceFail(id, reason string) (*models.Scan, error) {
	scan, err := s.scanDao.GetScanByUUID(id)
	if err != nil {
		return nil, err
	}
	if scan.Status != models.StatusRunning {
		return nil, pkgerrors.NewTransitionError(id, scan.Status, models.StatusFailed)
	}

	if reason == "" {
		reason = "force-failed by operator"
	}
	scan.Status = models.StatusFailed
	scan.ErrorMessage = reason
	if err := s.scanDao.UpdateScan(scan); err != nil {
		return nil, err
	}

	s.logger.Warn("Scan force-failed", logger.Fields{"scan_id": id, "reason": reason})
	return scan, nil
}
