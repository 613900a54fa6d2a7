// Package testutil provides in-memory fakes for the external collaborators
// (cache, chain data source, job queue) used across service tests.
package testutil

import (
	"context"
	"sync"

	"chainscan/internal/models"
)

// MemoryCache is a map-backed cache.Cache. Setting Unavailable simulates a
// cache outage: every read misses and every write is dropped, which is the
// degradation contract the real cache follows.
type MemoryCache struct {
	mu          sync.Mutex
	bytecode    map[string]string
	reports     map[string]*models.CachedReport
	Unavailable bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		bytecode: make(map[string]string),
		reports:  make(map[string]*models.CachedReport),
	}
}

func (c *MemoryCache) GetBytecode(_ context.Context, network, address string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Unavailable {
		return "", false
	}
	value, ok := c.bytecode[network+":"+address]
	return value, ok
}

func (c *MemoryCache) SetBytecode(_ context.Context, network, address, bytecode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Unavailable {
		return
	}
	if bytecode == "" || bytecode == "0x" {
		return
	}
	c.bytecode[network+":"+address] = bytecode
}

func (c *MemoryCache) GetReport(_ context.Context, scanID string) (*models.CachedReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Unavailable {
		return nil, false
	}
	report, ok := c.reports[scanID]
	return report, ok
}

func (c *MemoryCache) SetReport(_ context.Context, scanID string, report *models.CachedReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Unavailable {
		return
	}
	c.reports[scanID] = report
}

// HasReport reports whether a report was cached for the scan.
func (c *MemoryCache) HasReport(scanID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.reports[scanID]
	return ok
}

// FakeChainSource returns canned chain data and counts calls.
type FakeChainSource struct {
	mu sync.Mutex

	BytecodeValue string
	BalanceValue  string
	HeightValue   uint64

	BytecodeErr error
	BalanceErr  error
	HeightErr   error

	BytecodeCalls int
}

func (f *FakeChainSource) Bytecode(context.Context, string) (string, error) {
	f.mu.Lock()
	f.BytecodeCalls++
	f.mu.Unlock()
	if f.BytecodeErr != nil {
		return "", f.BytecodeErr
	}
	return f.BytecodeValue, nil
}

func (f *FakeChainSource) Balance(context.Context, string) (string, error) {
	if f.BalanceErr != nil {
		return "", f.BalanceErr
	}
	return f.BalanceValue, nil
}

func (f *FakeChainSource) BlockHeight(context.Context) (uint64, error) {
	if f.HeightErr != nil {
		return 0, f.HeightErr
	}
	return f.HeightValue, nil
}

// CaptureEnqueuer records enqueued payloads and can simulate a broker
// outage through Err.
type CaptureEnqueuer struct {
	mu       sync.Mutex
	Payloads []models.ScanJobPayload
	Err      error
}

func (e *CaptureEnqueuer) EnqueueScan(_ context.Context, payload models.ScanJobPayload) error {
	if e.Err != nil {
		return e.Err
	}
	e.mu.Lock()
	e.Payloads = append(e.Payloads, payload)
	e.mu.Unlock()
	return nil
}

// Enqueued returns a copy of the captured payloads.
func (e *CaptureEnqueuer) Enqueued() []models.ScanJobPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.ScanJobPayload, len(e.Payloads))
	copy(out, e.Payloads)
	return out
}
