// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"sync"

	"github.com/MKhiriev/go-switchboard/internal/logger"
)

const (
	defaultWorkers = 8
	defaultQueue   = 64
)

// Pool is a fixed-size goroutine pool with a buffered task queue.
//
// Go never blocks the caller: when the queue is full (or the pool is
// stopped) the task is run on a fresh goroutine instead. That keeps the
// transport's event goroutine deliverable under any handler load, at the
// cost of unbounded spill in pathological bursts.
type Pool struct {
	mu      sync.RWMutex
	stopped bool

	tasks chan func()
	size  int
	log   *logger.Logger

	runOnce sync.Once
	wg      sync.WaitGroup
}

// NewPool constructs a Pool with size workers and a queue of queue tasks.
// Non-positive values fall back to the package defaults.
func NewPool(size, queue int, log *logger.Logger) *Pool {
	if size <= 0 {
		size = defaultWorkers
	}
	if queue <= 0 {
		queue = defaultQueue
	}

	return &Pool{
		tasks: make(chan func(), queue),
		size:  size,
		log:   log,
	}
}

// Run starts the pool's workers. It returns immediately and is safe to call
// more than once; only the first call has an effect.
func (p *Pool) Run() {
	p.runOnce.Do(func() {
		p.log.Debug().Int("workers", p.size).Msg("dispatch pool starting")

		for i := 0; i < p.size; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Go submits task for execution. If the queue has room the task is picked up
// by a pool worker; otherwise it runs on its own goroutine. Go never blocks.
func (p *Pool) Go(task func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		go task()
		return
	}

	select {
	case p.tasks <- task:
	default:
		go task()
	}
}

// Stop closes the queue and waits for all workers to finish the tasks
// already submitted. Tasks submitted after Stop still run, each on its own
// goroutine.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Debug().Msg("dispatch pool stopped")
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		task()
	}
}
