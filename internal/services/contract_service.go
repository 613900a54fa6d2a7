package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"chainscan/internal/cache"
	"chainscan/internal/chain"
	"chainscan/internal/dao"
	"chainscan/internal/models"
	"chainscan/pkg/analyzer"
	pkgerrors "chainscan/pkg/errors"
	"chainscan/pkg/logger"
)

// ContractSubmission is the caller-supplied contract registration data.
type ContractSubmission struct {
	Address  string
	Network  string
	Labels   []string
	Metadata map[string]string
}

// ChainSnapshot is the synchronous view of an address's on-chain state,
// served through the bytecode cache.
type ChainSnapshot struct {
	Address      string  `json:"address"`
	Network      string  `json:"network"`
	HasCode      bool    `json:"has_code"`
	BytecodeHash string  `json:"bytecode_hash"`
	BytecodeSize int     `json:"bytecode_size"`
	Balance      string  `json:"balance"`
	BlockHeight  *uint64 `json:"block_height,omitempty"`
}

type ContractServiceMethods interface {
	UpsertContract(ctx context.Context, sub ContractSubmission) (*models.Contract, error)
	GetContract(address, network string) (*models.Contract, error)
	ListContracts(riskLevel, network string, page, limit int) ([]models.Contract, int64, error)
	Snapshot(ctx context.Context, address, network string) (*ChainSnapshot, error)
}

type contractService struct {
	contractDao    dao.ContractDAO
	cache          cache.Cache
	source         chain.Source
	defaultNetwork string
	logger         *logger.Logger
}

func NewContractService(contractDao dao.ContractDAO, cache cache.Cache, source chain.Source, defaultNetwork string) ContractServiceMethods {
	return &contractService{
		contractDao:    contractDao,
		cache:          cache,
		source:         source,
		defaultNetwork: defaultNetwork,
		logger:         logger.NewLogger(logrus.InfoLevel),
	}
}

// UpsertContract creates the (address, network) record on first sight and
// merges labels/metadata on every later submission without clobbering
// unrelated fields.
func (s *contractService) UpsertContract(ctx context.Context, sub ContractSubmission) (*models.Contract, error) {
	address, err := chain.NormalizeAddress(sub.Address)
	if err != nil {
		return nil, err
	}
	network := sub.Network
	if network == "" {
		network = s.defaultNetwork
	}

	contract, err := s.contractDao.GetContractByAddress(address, network)
	switch {
	case err == nil:
		contract.MergeLabels(sub.Labels)
		contract.MergeMetadata(sub.Metadata)
		if err := s.contractDao.UpdateContract(contract); err != nil {
			return nil, err
		}
		return contract, nil

	case errors.Is(err, pkgerrors.ErrContractNotFound):
		contract = &models.Contract{
			ID:       uuid.New().String(),
			Address:  address,
			Network:  network,
			Labels:   sub.Labels,
			Metadata: sub.Metadata,
		}
		createErr := s.contractDao.CreateContract(contract)
		if createErr == nil {
			return contract, nil
		}
		// Concurrent first-sight submissions: the unique (address,
		// network) index elects one creator, everyone else merges.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return s.UpsertContract(ctx, sub)
		}
		return nil, createErr

	default:
		return nil, err
	}
}

func (s *contractService) GetContract(address, network string) (*models.Contract, error) {
	normalized, err := chain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if network == "" {
		network = s.defaultNetwork
	}
	return s.contractDao.GetContractByAddress(normalized, network)
}

func (s *contractService) ListContracts(riskLevel, network string, page, limit int) ([]models.Contract, int64, error) {
	if riskLevel != "" {
		if _, err := analyzer.ParseSeverity(riskLevel); err != nil {
			return nil, 0, pkgerrors.NewValidationError("risk_level", riskLevel, "must be one of low, medium, high, critical")
		}
	}
	return s.contractDao.ListContractsWithPagination(riskLevel, network, page, limit)
}

// Snapshot reads current chain state for an address, going through the
// bytecode cache so repeated polling does not burn RPC quota.
func (s *contractService) Snapshot(ctx context.Context, address, network string) (*ChainSnapshot, error) {
	normalized, err := chain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if network == "" {
		network = s.defaultNetwork
	}

	bytecode, cached := s.cache.GetBytecode(ctx, network, normalized)
	if !cached {
		bytecode, err = s.source.Bytecode(ctx, normalized)
		if err != nil {
			return nil, err
		}
		s.cache.SetBytecode(ctx, network, normalized, bytecode)
	}

	balance, err := s.source.Balance(ctx, normalized)
	if err != nil {
		return nil, err
	}
	height, err := s.source.BlockHeight(ctx)
	if err != nil {
		return nil, err
	}

	normalizedCode := analyzer.NormalizeBytecode(bytecode)
	return &ChainSnapshot{
		Address:      normalized,
		Network:      network,
		HasCode:      analyzer.HasCode(normalizedCode),
		BytecodeHash: analyzer.HashBytecode(normalizedCode),
		BytecodeSize: len(normalizedCode[2:]) / 2,
		Balance:      balance,
		BlockHeight:  &height,
	}, nil
}
