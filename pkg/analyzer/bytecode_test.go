package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCountsOpcodes(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	tests := []struct {
		name              string
		bytecode          string
		expectedTotal     int
		expectedDistinct  int
		expectedDangerous map[string]int
		expectedFindings  []string
	}{
		{
			name:              "single delegatecall",
			bytecode:          "0xf4",
			expectedTotal:     1,
			expectedDistinct:  1,
			expectedDangerous: map[string]int{"DELEGATECALL": 1},
			expectedFindings:  []string{"opcode-delegatecall"},
		},
		{
			name:              "delegatecall and selfdestruct",
			bytecode:          "0xf4ff",
			expectedTotal:     2,
			expectedDistinct:  2,
			expectedDangerous: map[string]int{"DELEGATECALL": 1, "SELFDESTRUCT": 1},
			expectedFindings:  []string{"opcode-delegatecall", "opcode-selfdestruct"},
		},
		{
			name:              "repeated opcode counted once per instruction",
			bytecode:          "0xf1f1f1",
			expectedTotal:     3,
			expectedDistinct:  1,
			expectedDangerous: map[string]int{"CALL": 3},
			expectedFindings:  []string{"opcode-call"},
		},
		{
			name:              "benign opcodes only",
			bytecode:          "0x0102010201",
			expectedTotal:     5,
			expectedDistinct:  2,
			expectedDangerous: map[string]int{},
			expectedFindings:  nil,
		},
		{
			name:              "prefix is optional",
			bytecode:          "ff",
			expectedTotal:     1,
			expectedDistinct:  1,
			expectedDangerous: map[string]int{"SELFDESTRUCT": 1},
			expectedFindings:  []string{"opcode-selfdestruct"},
		},
		{
			name:              "empty bytecode yields zero summary",
			bytecode:          "0x",
			expectedTotal:     0,
			expectedDistinct:  0,
			expectedDangerous: map[string]int{},
			expectedFindings:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, findings, err := scanner.Scan(tt.bytecode)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedTotal, summary.TotalInstructions)
			assert.Equal(t, tt.expectedDistinct, summary.DistinctOpcodes)
			assert.Equal(t, tt.expectedDangerous, summary.DangerousCounts)

			var ids []string
			for _, f := range findings {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tt.expectedFindings, ids)
		})
	}
}

func TestScanSkipsPushOperands(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	// PUSH32 followed by 32 bytes equal to SELFDESTRUCT. The operand data
	// must not be read as instructions.
	bytecode := "0x7f" + strings.Repeat("ff", 32)

	summary, findings, err := scanner.Scan(bytecode)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalInstructions)
	assert.Equal(t, 1, summary.DistinctOpcodes)
	assert.NotContains(t, summary.DangerousCounts, "SELFDESTRUCT")
	assert.Empty(t, findings)
}

func TestScanSkipsEveryPushWidth(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	// PUSH1..PUSH32, each padded with operand bytes of 0xff.
	for width := 1; width <= 32; width++ {
		push := byte(0x5f + width)
		bytecode := "0x" + hexByte(push) + strings.Repeat("ff", width)

		summary, _, err := scanner.Scan(bytecode)
		require.NoError(t, err)
		assert.Equalf(t, 1, summary.TotalInstructions, "PUSH%d", width)
		assert.NotContainsf(t, summary.DangerousCounts, "SELFDESTRUCT", "PUSH%d", width)
	}
}

func TestScanTruncatedPushOperand(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	// PUSH32 with only 4 operand bytes present: the skip runs off the end
	// without error.
	summary, findings, err := scanner.Scan("0x7fffffffff")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalInstructions)
	assert.Empty(t, findings)
}

func TestScanRejectsMalformedHex(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	_, _, err := scanner.Scan("0xzz")
	assert.Error(t, err)

	_, _, err = scanner.Scan("0xf4f")
	assert.Error(t, err)
}

func TestScanFindingCarriesOccurrenceCount(t *testing.T) {
	scanner := NewBytecodeScanner(DefaultCatalog())

	_, findings, err := scanner.Scan("0xf1f1f1")
	require.NoError(t, err)
	require.Len(t, findings, 1)

	assert.Equal(t, "opcode-call", findings[0].ID)
	assert.Equal(t, SeverityMedium, findings[0].Severity)
	assert.Equal(t, "3", findings[0].Metadata["occurrences"])
	assert.Contains(t, findings[0].Description, "3 occurrence(s)")
}

func TestNormalizeBytecode(t *testing.T) {
	assert.Equal(t, "0xf4ff", NormalizeBytecode("0xF4FF"))
	assert.Equal(t, "0xf4ff", NormalizeBytecode("F4FF"))
	assert.Equal(t, "0x", NormalizeBytecode(""))
	assert.Equal(t, "0x", NormalizeBytecode("0x"))
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
