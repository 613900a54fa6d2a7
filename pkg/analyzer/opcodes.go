// Package analyzer implements the bytecode risk analysis core: the opcode
// catalog, the instruction-stream scanner, the ABI heuristics and the risk
// aggregator that combines their findings into a scored report.
package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Weight returns the scoring weight of a severity. Unknown severities
// weigh zero so a bad override can never inflate a score.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 6
	case SeverityCritical:
		return 10
	}
	return 0
}

// ParseSeverity validates a severity string from external input.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(s)) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	case SeverityCritical:
		return SeverityCritical, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// OpcodeInfo is the static metadata attached to one dangerous opcode.
type OpcodeInfo struct {
	Name        string
	Severity    Severity
	Explanation string
}

// CatalogEntry pairs an opcode byte with its metadata for ordered iteration.
type CatalogEntry struct {
	Byte byte
	Info OpcodeInfo
}

// Push-class opcodes (PUSH1..PUSH32) carry 1..32 literal operand bytes
// that must not be interpreted as instructions.
const (
	opPush1  byte = 0x60
	opPush32 byte = 0x7f
)

// pushOperandBytes returns how many operand bytes follow op, or 0 when op
// is not a push-class opcode.
func pushOperandBytes(op byte) int {
	if op >= opPush1 && op <= opPush32 {
		return int(op-opPush1) + 1
	}
	return 0
}

// Catalog maps opcode bytes to risk metadata. Severities may be remapped at
// runtime from an overrides file, so lookups take a read lock.
type Catalog struct {
	mu      sync.RWMutex
	entries map[byte]OpcodeInfo
}

// DefaultCatalog builds the built-in dangerous-opcode catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{entries: map[byte]OpcodeInfo{
		0x32: {Name: "ORIGIN", Severity: SeverityHigh, Explanation: "Uses tx.origin for authorization, which is phishable through intermediate contracts"},
		0x3b: {Name: "EXTCODESIZE", Severity: SeverityLow, Explanation: "Inspects external code size, commonly used to gate behavior on caller type"},
		0x55: {Name: "SSTORE", Severity: SeverityLow, Explanation: "Writes contract storage; expected in most contracts but relevant to state-change review"},
		0xf0: {Name: "CREATE", Severity: SeverityMedium, Explanation: "Deploys new contracts at runtime, which can introduce unreviewed code"},
		0xf1: {Name: "CALL", Severity: SeverityMedium, Explanation: "Makes external calls that can transfer value and re-enter the caller"},
		0xf2: {Name: "CALLCODE", Severity: SeverityCritical, Explanation: "Executes foreign code against this contract's storage with legacy semantics"},
		0xf4: {Name: "DELEGATECALL", Severity: SeverityHigh, Explanation: "Executes foreign code with this contract's storage and balance context"},
		0xf5: {Name: "CREATE2", Severity: SeverityMedium, Explanation: "Deploys contracts at deterministic addresses, enabling redeploy-after-selfdestruct patterns"},
		0xfa: {Name: "STATICCALL", Severity: SeverityLow, Explanation: "Makes read-only external calls; low risk on its own"},
		0xff: {Name: "SELFDESTRUCT", Severity: SeverityHigh, Explanation: "Can destroy the contract and force-send its entire balance"},
	}}
}

// Lookup returns the catalog entry for an opcode byte.
func (c *Catalog) Lookup(op byte) (OpcodeInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[op]
	return info, ok
}

// Entries returns all catalog entries in ascending opcode-byte order.
// Findings are emitted in this order so reports are deterministic.
func (c *Catalog) Entries() []CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CatalogEntry, 0, len(c.entries))
	for b, info := range c.entries {
		out = append(out, CatalogEntry{Byte: b, Info: info})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Byte < out[j].Byte })
	return out
}

// SetSeverity remaps the severity of a catalog entry by opcode name.
func (c *Catalog) SetSeverity(name string, severity Severity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for b, info := range c.entries {
		if strings.EqualFold(info.Name, name) {
			info.Severity = severity
			c.entries[b] = info
			return nil
		}
	}
	return fmt.Errorf("opcode %q not in catalog", name)
}
