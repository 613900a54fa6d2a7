package services

import (
	"github.com/stretchr/testify/mock"

	"chainscan/internal/models"
)

type MockScanDAO struct {
	mock.Mock
}

func (m *MockScanDAO) CreateScan(scan *models.Scan) (*models.Scan, error) {
	args := m.Called(scan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func (m *MockScanDAO) GetScanByUUID(uuid string) (*models.Scan, error) {
	args := m.Called(uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func (m *MockScanDAO) FindActiveScan(contractID string) (*models.Scan, error) {
	args := m.Called(contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scan), args.Error(1)
}

func (m *MockScanDAO) UpdateScan(scan *models.Scan) error {
	args := m.Called(scan)
	return args.Error(0)
}

func (m *MockScanDAO) ListScansWithPagination(status string, page, limit int) ([]models.Scan, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Scan), args.Get(1).(int64), args.Error(2)
}

func (m *MockScanDAO) CountScansByStatus() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockScanDAO) CountScansByRiskLevel() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockScanDAO) AverageRiskScore() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

type MockContractDAO struct {
	mock.Mock
}

func (m *MockContractDAO) CreateContract(contract *models.Contract) error {
	args := m.Called(contract)
	return args.Error(0)
}

func (m *MockContractDAO) GetContractByID(id string) (*models.Contract, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractDAO) GetContractByAddress(address, network string) (*models.Contract, error) {
	args := m.Called(address, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractDAO) UpdateContract(contract *models.Contract) error {
	args := m.Called(contract)
	return args.Error(0)
}

func (m *MockContractDAO) ListContractsWithPagination(riskLevel, network string, page, limit int) ([]models.Contract, int64, error) {
	args := m.Called(riskLevel, network, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Contract), args.Get(1).(int64), args.Error(2)
}

func (m *MockContractDAO) CountContractsByRiskLevel() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockContractDAO) CountContracts() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}
