package services

import (
	"fmt"

	"chainscan/internal/dao"
	"chainscan/internal/models"
	"chainscan/pkg/analyzer"
	pkgerrors "chainscan/pkg/errors"
	"chainscan/pkg/logger"
)

// ScanStatusManager owns scan status transitions. Every move goes through
// the forward-only guard; a terminal scan is never mutated again.
type ScanStatusManager struct {
	scanDao dao.ScanDAO
	logger  *logger.Logger
}

func NewScanStatusManager(scanDao dao.ScanDAO, logger *logger.Logger) *ScanStatusManager {
	return &ScanStatusManager{
		scanDao: scanDao,
		logger:  logger,
	}
}

// MarkRunning transitions a pending scan to running and returns the
// refreshed record.
func (m *ScanStatusManager) MarkRunning(scanID string) (*models.Scan, error) {
	scan, err := m.scanDao.GetScanByUUID(scanID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(scan.Status, models.StatusRunning) {
		return nil, pkgerrors.NewTransitionError(scanID, scan.Status, models.StatusRunning)
	}

	scan.Status = models.StatusRunning
	if err := m.scanDao.UpdateScan(scan); err != nil {
		return nil, fmt.Errorf("persist running status: %w", err)
	}
	return scan, nil
}

// MarkSucceeded attaches the completed report and moves the scan to its
// terminal succeeded state.
func (m *ScanStatusManager) MarkSucceeded(scan *models.Scan, report *analyzer.Report) error {
	if !models.CanTransition(scan.Status, models.StatusSucceeded) {
		return pkgerrors.NewTransitionError(scan.UUID, scan.Status, models.StatusSucceeded)
	}

	scan.Status = models.StatusSucceeded
	scan.AttachReport(report)

	if err := m.scanDao.UpdateScan(scan); err != nil {
		return fmt.Errorf("persist scan completion: %w", err)
	}
	return nil
}

// MarkFailedWithReason moves a scan to failed with the captured error
// message. No partial results are attached.
func (m *ScanStatusManager) MarkFailedWithReason(scanID string, reason string) {
	scan, err := m.scanDao.GetScanByUUID(scanID)
	if err != nil {
		m.logger.Error("Failed to load scan for failure update", logger.Fields{"error": err, "scan_id": scanID})
		return
	}
	if !models.CanTransition(scan.Status, models.StatusFailed) {
		m.logger.Warn("Refusing illegal transition to failed", logger.Fields{"scan_id": scanID, "status": scan.Status})
		return
	}

	scan.Status = models.StatusFailed
	scan.ErrorMessage = reason

	if err := m.scanDao.UpdateScan(scan); err != nil {
		m.logger.Error("Failed to persist failed scan status", logger.Fields{"error": err, "scan_id": scanID})
	}

	m.logger.Error("Scan marked as failed", logger.Fields{
		"scan_id": scanID,
		"reason":  reason,
	})
}
