package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{StatusPending, StatusRunning, true},
		{StatusRunning, StatusSucceeded, true},
		{StatusRunning, StatusFailed, true},

		{StatusPending, StatusSucceeded, false},
		{StatusPending, StatusFailed, false},
		{StatusRunning, StatusPending, false},
		{StatusSucceeded, StatusRunning, false},
		{StatusSucceeded, StatusFailed, false},
		{StatusFailed, StatusRunning, false},
		{StatusFailed, StatusSucceeded, false},
		{"bogus", StatusRunning, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"transition %s -> %s", tt.from, tt.to)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusRunning, StatusSucceeded, StatusFailed} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("queued"))
	assert.False(t, IsValidStatus(""))
}

func TestMergeLabels(t *testing.T) {
	c := &Contract{Labels: []string{"defi", "verified"}}

	c.MergeLabels([]string{"verified", "proxy", "defi", "proxy"})

	assert.Equal(t, []string{"defi", "verified", "proxy"}, c.Labels)
}

func TestMergeMetadata(t *testing.T) {
	c := &Contract{Metadata: map[string]string{"source": "etherscan", "team": "alpha"}}

	c.MergeMetadata(map[string]string{"team": "bravo", "audited": "true"})

	assert.Equal(t, map[string]string{
		"source":  "etherscan",
		"team":    "bravo",
		"audited": "true",
	}, c.Metadata)

	var empty Contract
	empty.MergeMetadata(nil)
	assert.Nil(t, empty.Metadata)
}
