package analyzer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Finding is one flagged condition in a report. ID is a stable kebab-case
// identifier used for grouping and idempotent re-scoring.
type Finding struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Severity    Severity          `json:"severity"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// OpcodeSummary describes the decoded instruction stream. Operand bytes of
// push instructions are excluded from all counts.
type OpcodeSummary struct {
	TotalInstructions int            `json:"total_instructions"`
	DangerousCounts   map[string]int `json:"dangerous_counts"`
	DistinctOpcodes   int            `json:"distinct_opcodes"`
}

// NormalizeBytecode lowercases hex bytecode and ensures the 0x prefix.
func NormalizeBytecode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.TrimPrefix(code, "0x")
	return "0x" + code
}

// HasCode reports whether normalized bytecode contains any instructions.
// An externally-owned account has no deployed code.
func HasCode(normalized string) bool {
	return strings.TrimPrefix(normalized, "0x") != ""
}

// BytecodeScanner walks an instruction stream once and classifies opcodes
// against a catalog.
type BytecodeScanner struct {
	catalog *Catalog
}

func NewBytecodeScanner(catalog *Catalog) *BytecodeScanner {
	return &BytecodeScanner{catalog: catalog}
}

// Scan decodes the hex stream and walks it one opcode at a time, skipping
// push operands so inline data is never misread as instructions. It returns
// the opcode summary and one finding per catalog entry that was hit, in
// ascending opcode-byte order.
func (s *BytecodeScanner) Scan(bytecode string) (OpcodeSummary, []Finding, error) {
	summary := OpcodeSummary{DangerousCounts: map[string]int{}}

	raw := strings.TrimPrefix(NormalizeBytecode(bytecode), "0x")
	if raw == "" {
		return summary, nil, nil
	}

	code, err := hex.DecodeString(raw)
	if err != nil {
		return summary, nil, fmt.Errorf("decode bytecode: %w", err)
	}

	seen := map[byte]struct{}{}
	hits := map[byte]int{}

	for i := 0; i < len(code); i++ {
		op := code[i]
		summary.TotalInstructions++
		seen[op] = struct{}{}

		if info, ok := s.catalog.Lookup(op); ok {
			hits[op]++
			summary.DangerousCounts[info.Name]++
		}

		// A truncated trailing push is tolerated: the skip just runs
		// off the end of the stream.
		i += pushOperandBytes(op)
	}
	summary.DistinctOpcodes = len(seen)

	var findings []Finding
	for _, entry := range s.catalog.Entries() {
		count, ok := hits[entry.Byte]
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			ID:          "opcode-" + strings.ToLower(entry.Info.Name),
			Title:       fmt.Sprintf("Dangerous opcode %s", entry.Info.Name),
			Description: fmt.Sprintf("%s (%d occurrence(s))", entry.Info.Explanation, count),
			Severity:    entry.Info.Severity,
			Metadata:    map[string]string{"occurrences": strconv.Itoa(count)},
		})
	}

	return summary, findings, nil
}
