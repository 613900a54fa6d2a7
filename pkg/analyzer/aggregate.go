package analyzer

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Risk level thresholds over the summed severity weights. Checked highest
// first; first match wins.
const (
	criticalThreshold = 18
	highThreshold     = 12
	mediumThreshold   = 6
)

// Instruction density below this ratio suggests large embedded data
// segments that may hide payloads.
const paddingDensityThreshold = 0.25

// Request carries everything one analysis needs. Balance and BlockHeight
// are snapshots supplied by the caller; empty/nil means unknown and the
// field is omitted from the report.
type Request struct {
	Bytecode    string
	ABI         string
	Balance     string
	BlockHeight *uint64
}

// Report is the complete deterministic result of one analysis.
type Report struct {
	RiskScore    int           `json:"risk_score"`
	RiskLevel    Severity      `json:"risk_level"`
	Findings     []Finding     `json:"findings"`
	Summary      OpcodeSummary `json:"opcode_summary"`
	BytecodeHash string        `json:"bytecode_hash"`
	Balance      string        `json:"balance,omitempty"`
	BlockHeight  *uint64       `json:"block_height,omitempty"`
}

// HashBytecode fingerprints normalized bytecode. The same deployed code
// always hashes identically; one changed byte diverges.
func HashBytecode(normalized string) string {
	return crypto.Keccak256Hash([]byte(normalized)).Hex()
}

// Analyzer combines the bytecode scanner, the ABI heuristics and the
// contextual escalation rules into one scored report.
type Analyzer struct {
	scanner *BytecodeScanner
}

func New(catalog *Catalog) *Analyzer {
	return &Analyzer{scanner: NewBytecodeScanner(catalog)}
}

// Analyze produces a report for the request. Findings appear in a fixed
// order: catalog hits, ABI findings, then contextual escalations. Scanning
// the same input twice yields an identical report.
func (a *Analyzer) Analyze(req Request) (*Report, error) {
	normalized := NormalizeBytecode(req.Bytecode)

	report := &Report{
		BytecodeHash: HashBytecode(normalized),
		Balance:      req.Balance,
		BlockHeight:  req.BlockHeight,
		Summary:      OpcodeSummary{DangerousCounts: map[string]int{}},
	}

	// No deployed code means an externally-owned account, not a failure.
	// Short-circuit with a single informational finding and score zero.
	if !HasCode(normalized) {
		report.Findings = []Finding{{
			ID:          "no-contract-code",
			Title:       "No contract code",
			Description: "The address has no deployed bytecode; it is likely an externally-owned account",
			Severity:    SeverityLow,
		}}
		report.RiskScore = 0
		report.RiskLevel = SeverityLow
		return report, nil
	}

	summary, findings, err := a.scanner.Scan(normalized)
	if err != nil {
		return nil, err
	}
	report.Summary = summary

	findings = append(findings, ScanABI(req.ABI)...)

	// Contextual rule A: funds exposed behind a risky pattern are worse
	// than either fact alone.
	if req.Balance != "" && hasSevereFinding(findings) {
		findings = append(findings, Finding{
			ID:          "high-balance-with-risks",
			Title:       "Balance held behind risky code",
			Description: "The contract holds a balance while exhibiting high or critical risk patterns",
			Severity:    SeverityHigh,
			Metadata:    map[string]string{"balance": req.Balance},
		})
	}

	// Contextual rule B: low instruction density across the byte stream
	// suggests large inline data segments.
	bytePairs := len(normalized[2:]) / 2
	if bytePairs > 0 {
		density := float64(summary.TotalInstructions) / float64(bytePairs)
		if density < paddingDensityThreshold {
			findings = append(findings, Finding{
				ID:          "suspicious-padding",
				Title:       "Suspicious code padding",
				Description: "Decoded instructions cover an unusually small share of the bytecode, suggesting embedded data or obfuscation",
				Severity:    SeverityMedium,
			})
		}
	}

	report.Findings = findings
	report.RiskScore = scoreFindings(findings)
	report.RiskLevel = levelForScore(report.RiskScore)
	return report, nil
}

func hasSevereFinding(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityHigh || f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// scoreFindings sums severity weights. Each finding contributes its weight
// exactly once; occurrence counts are informational metadata only.
func scoreFindings(findings []Finding) int {
	score := 0
	for _, f := range findings {
		score += f.Severity.Weight()
	}
	return score
}

func levelForScore(score int) Severity {
	switch {
	case score >= criticalThreshold:
		return SeverityCritical
	case score >= highThreshold:
		return SeverityHigh
	case score >= mediumThreshold:
		return SeverityMedium
	}
	return SeverityLow
}
