package services

import (
	"sync"

	"chainscan/pkg/logger"
)

// JobGate bounds how many scan jobs one worker process analyzes at once
// with a simple semaphore. Kafka partitions can hand a process several
// claims; the gate keeps analysis concurrency at the configured limit.
type JobGate struct {
	semaphore chan struct{}
	running   int
	queued    int
	mu        sync.Mutex
	logger    *logger.Logger
}

func NewJobGate(maxConcurrent int, log *logger.Logger) *JobGate {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &JobGate{
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    log,
	}
}

// Execute blocks until a slot is available, then runs fn to completion.
func (g *JobGate) Execute(fn func() error) error {
	g.mu.Lock()
	g.queued++
	g.mu.Unlock()

	g.semaphore <- struct{}{}

	g.mu.Lock()
	g.queued--
	g.running++
	running, queued := g.running, g.queued
	g.mu.Unlock()

	g.logger.Debug("Job slot acquired", logger.Fields{"running": running, "queued": queued})

	defer func() {
		<-g.semaphore
		g.mu.Lock()
		g.running--
		g.mu.Unlock()
	}()

	return fn()
}

// Status returns current gate occupancy.
func (g *JobGate) Status() (running, queued, maxConcurrent int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running, g.queued, cap(g.semaphore)
}
