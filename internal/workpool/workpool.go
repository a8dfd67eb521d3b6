// Package workpool runs submitted jobs on a fixed number of goroutines.
package workpool

import (
	"runtime"
	"sync"
)

// Pool manages a bounded set of workers fed from a job queue.
type Pool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	start    sync.Once
	stop     sync.Once
}

// New creates a pool with the given number of workers. A non-positive count
// means GOMAXPROCS.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool) Start() {
	p.start.Do(func() {
		for i := 0; i < p.workers; i++ {
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	for job := range p.jobQueue {
		job()
		p.wg.Done()
	}
}

// Submit queues a job, blocking while the queue is full.
// Submit must not be called after Close.
func (p *Pool) Submit(job func()) {
	p.wg.Add(1)
	p.jobQueue <- job
}

// Wait blocks until every submitted job has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close stops the workers once the queue drains.
func (p *Pool) Close() {
	p.stop.Do(func() { close(p.jobQueue) })
}

// Map runs fn(i) for every i in [0, n) on a temporary pool of the given size
// and returns when all calls have finished.
func Map(workers, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := New(min(workers, n))
	p.Start()
	defer p.Close()

	for i := 0; i < n; i++ {
		p.Submit(func() { fn(i) })
	}
	p.Wait()
}
