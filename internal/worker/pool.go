package worker

import (
	"context"
	"sync"
)

// Job is one unit of work run by a Pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produces
type Result interface {
	GetError() error
}

type slotted struct {
	slot int
	job  Job
}

// Pool runs submitted jobs on a fixed number of goroutines and hands the
// results back in submission order. A job the pool never ran leaves a nil
// in its slot.
type Pool struct {
	workers int
	queue   chan slotted
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	results []Result
}

// NewPool creates a pool bound to parent. Cancelling parent stops workers
// from picking up further jobs.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		workers: workers,
		queue:   make(chan slotted, workers),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for range p.workers {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case item, ok := <-p.queue:
			if !ok {
				return
			}
			// Cancellation may have raced the receive
			if p.ctx.Err() != nil {
				return
			}
			result := item.job.Execute(p.ctx)

			p.mu.Lock()
			p.results[item.slot] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues job in the next slot. It returns false if the pool was
// cancelled before the job could be queued.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	slot := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- slotted{slot: slot, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers to exit and returns one
// entry per submitted job
func (p *Pool) Wait() []Result {
	close(p.queue)
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}
