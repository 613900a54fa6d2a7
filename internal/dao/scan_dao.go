package dao

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"chainscan/internal/models"
	pkgerrors "chainscan/pkg/errors"
)

type ScanDAO interface {
	// CreateScan inserts a new pending scan. When the one-active-scan
	// partial index rejects the insert, the already-active scan for the
	// contract is returned instead.
	CreateScan(scan *models.Scan) (existing *models.Scan, err error)
	GetScanByUUID(uuid string) (*models.Scan, error)
	FindActiveScan(contractID string) (*models.Scan, error)
	UpdateScan(scan *models.Scan) error
	ListScansWithPagination(status string, page, limit int) ([]models.Scan, int64, error)
	CountScansByStatus() (map[string]int64, error)
	CountScansByRiskLevel() (map[string]int64, error)
	AverageRiskScore() (float64, error)
}

type scanDAO struct {
	db *gorm.DB
}

func NewScanDAO(db *gorm.DB) ScanDAO {
	return &scanDAO{db: db}
}

func (dao *scanDAO) CreateScan(scan *models.Scan) (*models.Scan, error) {
	now := time.Now().Unix()
	scan.CreatedAt = now
	scan.UpdatedAt = now

	err := dao.db.Create(scan).Error
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent submission; surface the
		// winner so dedup still returns one scan id.
		existing, findErr := dao.FindActiveScan(scan.ContractID)
		if findErr != nil {
			return nil, findErr
		}
		if existing != nil {
			return existing, nil
		}
	}
	return nil, err
}

func (dao *scanDAO) GetScanByUUID(uuid string) (*models.Scan, error) {
	var scan models.Scan
	if err := dao.db.Where("uuid = ?", uuid).First(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrScanNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (dao *scanDAO) FindActiveScan(contractID string) (*models.Scan, error) {
	var scan models.Scan
	err := dao.db.
		Where("contract_id = ? AND status IN ?", contractID, models.ActiveStatuses).
		Order("created_at asc").
		First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

func (dao *scanDAO) UpdateScan(scan *models.Scan) error {
	scan.UpdatedAt = time.Now().Unix()
	return dao.db.Save(scan).Error
}

func (dao *scanDAO) ListScansWithPagination(status string, page, limit int) ([]models.Scan, int64, error) {
	var scans []models.Scan
	var total int64

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	query := dao.db.Model(&models.Scan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

type statusCount struct {
	Key   string
	Count int64
}

func (dao *scanDAO) CountScansByStatus() (map[string]int64, error) {
	var rows []statusCount
	err := dao.db.Model(&models.Scan{}).
		Select("status as key, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}

func (dao *scanDAO) CountScansByRiskLevel() (map[string]int64, error) {
	var rows []statusCount
	err := dao.db.Model(&models.Scan{}).
		Select("risk_level as key, count(*) as count").
		Where("status = ?", models.StatusSucceeded).
		Group("risk_level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}

func (dao *scanDAO) AverageRiskScore() (float64, error) {
	var avg *float64
	err := dao.db.Model(&models.Scan{}).
		Select("avg(risk_score)").
		Where("status = ?", models.StatusSucceeded).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
