package dao

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"chainscan/internal/models"
	pkgerrors "chainscan/pkg/errors"
)

type ContractDAO interface {
	CreateContract(contract *models.Contract) error
	GetContractByID(id string) (*models.Contract, error)
	GetContractByAddress(address, network string) (*models.Contract, error)
	UpdateContract(contract *models.Contract) error
	ListContractsWithPagination(riskLevel, network string, page, limit int) ([]models.Contract, int64, error)
	CountContractsByRiskLevel() (map[string]int64, error)
	CountContracts() (int64, error)
}

type contractDAO struct {
	db *gorm.DB
}

func NewContractDAO(db *gorm.DB) ContractDAO {
	return &contractDAO{db: db}
}

func (dao *contractDAO) CreateContract(contract *models.Contract) error {
	now := time.Now().Unix()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	return dao.db.Create(contract).Error
}

func (dao *contractDAO) GetContractByID(id string) (*models.Contract, error) {
	var contract models.Contract
	if err := dao.db.Where("id = ?", id).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (dao *contractDAO) GetContractByAddress(address, network string) (*models.Contract, error) {
	var contract models.Contract
	err := dao.db.Where("address = ? AND network = ?", address, network).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (dao *contractDAO) UpdateContract(contract *models.Contract) error {
	contract.UpdatedAt = time.Now().Unix()
	return dao.db.Save(contract).Error
}

func (dao *contractDAO) ListContractsWithPagination(riskLevel, network string, page, limit int) ([]models.Contract, int64, error) {
	var contracts []models.Contract
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

	query := dao.db.Model(&models.Contract{})
	if riskLevel != "" {
		query = query.Where("risk_level = ?", riskLevel)
	}
	if network != "" {
		query = query.Where("network = ?", network)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("updated_at desc").
		Limit(limit).
		Offset(offset).
		Find(&contracts).Error; err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

func (dao *contractDAO) CountContractsByRiskLevel() (map[string]int64, error) {
	var rows []statusCount
	err := dao.db.Model(&models.Contract{}).
		Select("risk_level as key, count(*) as count").
		Where("risk_level <> ''").
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

func (dao *contractDAO) CountContracts() (int64, error) {
	var total int64
	err := dao.db.Model(&models.Contract{}).Count(&total).Error
	return total, err
}
