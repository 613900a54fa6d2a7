package analyzer

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Keyword sets for the ABI heuristic pass. Matching is case-insensitive
// substring over declared function names.
var (
	adminKeywords = []string{
		"owner", "admin", "setadmin", "setowner",
		"pause", "unpause", "upgrade", "transferownership",
	}
	financialKeywords = []string{
		"withdraw", "deposit", "transfer", "mint", "burn", "sweep", "claim",
	}
)

// ScanABI runs the heuristic pass over an optional ABI JSON document.
// A missing ABI yields no findings; bytecode is the source of truth and the
// ABI only sharpens the report. An unparseable ABI yields exactly one
// finding and no partial extraction.
func ScanABI(abiJSON string) []Finding {
	if strings.TrimSpace(abiJSON) == "" {
		return nil
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return []Finding{{
			ID:          "abi-parse-error",
			Title:       "ABI could not be parsed",
			Description: "The supplied ABI is not a valid interface description; declared functions were not analyzed",
			Severity:    SeverityMedium,
			Metadata:    map[string]string{"error": err.Error()},
		}}
	}

	adminCount := 0
	financialCount := 0
	for name := range parsed.Methods {
		lower := strings.ToLower(name)
		if matchesAny(lower, adminKeywords) {
			adminCount++
		}
		if matchesAny(lower, financialKeywords) {
			financialCount++
		}
	}

	var findings []Finding
	if adminCount > 0 {
		severity := SeverityMedium
		if adminCount > 2 {
			severity = SeverityHigh
		}
		findings = append(findings, Finding{
			ID:          "admin-functions",
			Title:       "Administrative functions declared",
			Description: "The ABI declares functions that suggest privileged owner/admin control over the contract",
			Severity:    severity,
			Metadata:    map[string]string{"matches": strconv.Itoa(adminCount)},
		})
	}
	if financialCount > 0 {
		findings = append(findings, Finding{
			ID:          "financial-functions",
			Title:       "Financial functions declared",
			Description: "The ABI declares functions that move or create value (withdrawals, transfers, minting)",
			Severity:    SeverityMedium,
			Metadata:    map[string]string{"matches": strconv.Itoa(financialCount)},
		})
	}
	return findings
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
