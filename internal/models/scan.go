package models

import (
	"chainscan/pkg/analyzer"
)

// Scan status values. Transitions are strictly forward:
// pending -> running -> succeeded | failed.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ActiveStatuses are the non-terminal statuses that block a new submission
// for the same contract.
var ActiveStatuses = []string{StatusPending, StatusRunning}

// CanTransition reports whether a scan may move from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusSucceeded || to == StatusFailed
	}
	return false
}

// IsValidStatus reports whether s is a known scan status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusRunning, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// Scan is one analysis attempt for a contract. Result fields are only
// populated on a succeeded scan; ErrorMessage only on a failed one. A scan
// is immutable once terminal.
type Scan struct {
	UUID          string                  `gorm:"primaryKey;type:varchar(36)" json:"uuid"`
	ContractID    string                  `gorm:"type:varchar(36);index" json:"contract_id"`
	Address       string                  `gorm:"type:varchar(42)" json:"address"`
	Network       string                  `gorm:"type:varchar(32)" json:"network"`
	Status        string                  `gorm:"type:varchar(16);index" json:"status"`
	ABI           string                  `json:"abi,omitempty"`
	RiskScore     int                     `json:"risk_score"`
	RiskLevel     string                  `json:"risk_level,omitempty"`
	Findings      []analyzer.Finding      `gorm:"serializer:json" json:"findings,omitempty"`
	OpcodeSummary *analyzer.OpcodeSummary `gorm:"serializer:json" json:"opcode_summary,omitempty"`
	BytecodeHash  string                  `gorm:"type:varchar(66)" json:"bytecode_hash,omitempty"`
	Balance       string                  `json:"balance,omitempty"`
	BlockHeight   *uint64                 `json:"block_height,omitempty"`
	ErrorMessage  string                  `json:"error_message,omitempty"`
	CreatedAt     int64                   `json:"created_at"`
	UpdatedAt     int64                   `json:"updated_at"`
}

// AttachReport copies a completed analysis onto the scan record.
func (s *Scan) AttachReport(report *analyzer.Report) {
	s.RiskScore = report.RiskScore
	s.RiskLevel = string(report.RiskLevel)
	s.Findings = report.Findings
	summary := report.Summary
	s.OpcodeSummary = &summary
	s.BytecodeHash = report.BytecodeHash
	s.Balance = report.Balance
	s.BlockHeight = report.BlockHeight
}

// ScanJobPayload is the queue message for one scan job. It carries
// everything the worker needs so the worker never re-reads the submission
// request.
type ScanJobPayload struct {
	ScanID     string `json:"scan_id"`
	ContractID string `json:"contract_id"`
	Address    string `json:"address"`
	Network    string `json:"network"`
	ABI        string `json:"abi,omitempty"`
}

// CachedReport is the terminal wrapper written to the report cache on
// successful completion and returned as-is by the lookup path.
type CachedReport struct {
	Status      string `json:"status"`
	CompletedAt int64  `json:"completed_at"`
	Scan        Scan   `json:"scan"`
}
