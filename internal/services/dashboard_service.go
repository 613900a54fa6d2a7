package services

import (
	"chainscan/internal/dao"
)

// DashboardAggregates are the read-side rollups shown on the dashboard.
type DashboardAggregates struct {
	TotalContracts       int64            `json:"total_contracts"`
	ContractsByRiskLevel map[string]int64 `json:"contracts_by_risk_level"`
	ScansByStatus        map[string]int64 `json:"scans_by_status"`
	ScansByRiskLevel     map[string]int64 `json:"scans_by_risk_level"`
	AverageRiskScore     float64          `json:"average_risk_score"`
}

type DashboardServiceMethods interface {
	GetAggregates() (*DashboardAggregates, error)
}

type dashboardService struct {
	scanDao     dao.ScanDAO
	contractDao dao.ContractDAO
}

func NewDashboardService(scanDao dao.ScanDAO, contractDao dao.ContractDAO) DashboardServiceMethods {
	return &dashboardService{scanDao: scanDao, contractDao: contractDao}
}

func (s *dashboardService) GetAggregates() (*DashboardAggregates, error) {
	totalContracts, err := s.contractDao.CountContracts()
	if err != nil {
		return nil, err
	}
	byRisk, err := s.contractDao.CountContractsByRiskLevel()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.scanDao.CountScansByStatus()
	if err != nil {
		return nil, err
	}
	scansByRisk, err := s.scanDao.CountScansByRiskLevel()
	if err != nil {
		return nil, err
	}
	avg, err := s.scanDao.AverageRiskScore()
	if err != nil {
		return nil, err
	}

	return &DashboardAggregates{
		TotalContracts:       totalContracts,
		ContractsByRiskLevel: byRisk,
		ScansByStatus:        byStatus,
		ScansByRiskLevel:     scansByRisk,
		AverageRiskScore:     avg,
	}, nil
}
